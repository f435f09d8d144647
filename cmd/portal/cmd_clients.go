package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/portal"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

func parseKind(raw string) (domain.ClientKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "ambulant", "ambulante":
		return domain.ClientKindAmbulant, nil
	case "activity", "actividad":
		return domain.ClientKindActivity, nil
	}
	return "", apperrors.NewValidationError("unknown client kind", map[string]any{"field": "kind", "value": raw})
}

func newLookupCmd(a *app) *cobra.Command {
	var kind, business, activity string
	cmd := &cobra.Command{
		Use:   "lookup <phone>",
		Short: "Find a client record by phone and show its photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			scope := portal.AmbulantScope()
			if k == domain.ClientKindActivity {
				scope = portal.ActivityScope(business, activity)
			}

			state := portal.NewAppState(a.redirect, nil)
			defer state.Close()

			result, err := portal.NewLookupFlow(a.client, nil).Lookup(cmd.Context(), args[0], scope)
			if err != nil {
				return err
			}
			state.ApplyLookup(result)

			out := cmd.OutOrStdout()
			switch state.View() {
			case portal.ViewNotRegistered:
				fmt.Fprintln(out, "No encontramos un registro con ese número. Regístrate para recibir tus fotos.")
			case portal.ViewPending:
				fmt.Fprintf(out, "%s: tus fotos aún se están procesando.\n", result.Record.Nombre)
			case portal.ViewGallery:
				fmt.Fprintf(out, "%s: %d fotos listas.\n", result.Record.Nombre, len(result.Photos))
				for _, photo := range result.Photos {
					fmt.Fprintln(out, photo)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "ambulant", "client kind: ambulant or activity")
	cmd.Flags().StringVar(&business, "business", "", "business id for activity lookups")
	cmd.Flags().StringVar(&activity, "activity", "", "activity id for activity lookups")
	return cmd
}

func newDeliverCmd(a *app) *cobra.Command {
	var staffRef string
	cmd := &cobra.Command{
		Use:   "deliver <ambulant|activity> <record-id> <file>...",
		Short: "Upload photos to a waiting client record",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			if staffRef == "" && a.profile != nil {
				staffRef = a.profile.Staff.ID
			}

			session := portal.NewUploader(a.client, a.uploadConfig()).StartUpload(cmd.Context(), kind, args[1])
			defer session.Close()
			if err := session.Confirm(args[2:], staffRef); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entregando %d fotos a %s\n", len(args[2:]), session.RecordID())
			for pct := range session.Progress() {
				fmt.Fprintf(out, "\rSubiendo... %3d%%", pct)
			}
			fmt.Fprintln(out)

			rec, err := session.Wait()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Fotos entregadas a %s (%d).\n", rec.ID, len(rec.FotosSubidas))
			return nil
		},
	}
	cmd.Flags().StringVar(&staffRef, "staff", "", "staff id credited with the delivery (defaults to the logged-in user)")
	return cmd
}
