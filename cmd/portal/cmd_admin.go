package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// deletable maps the names accepted by the delete command to API collections.
var deletable = map[string]string{
	"zone":            "zones",
	"business":        "businesses",
	"activity":        "activities",
	"ambulant-client": "ambulant-clients",
	"activity-client": "activity-clients",
	"service":         "services",
	"staff-user":      "staff/users",
	"application":     "staff",
}

func deletableNames() []string {
	names := make([]string, 0, len(deletable))
	for name := range deletable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *app) requireSession() error {
	if a.profile == nil {
		return apperrors.NewUnauthorized("login required")
	}
	return nil
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <" + strings.Join(deletableNames(), "|") + "> <id>",
		Short: "Delete a record (administrators only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, ok := deletable[strings.ToLower(args[0])]
			if !ok {
				return apperrors.NewValidationError("unknown resource", map[string]any{
					"field": "resource",
					"value": args[0],
				})
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.client.Delete(cmd.Context(), collection, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s eliminado.\n", args[0], args[1])
			return nil
		},
	}
}

func newAssignStaffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assign-staff <zone|activity> <id> [staff-id...]",
		Short: "Replace the photographers assigned to a zone or activity (administrators only)",
		Long:  "Replace the photographers assigned to a zone or activity. Passing no staff ids clears the assignment.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, id, staffIDs := strings.ToLower(args[0]), args[1], args[2:]
			if target != "zone" && target != "activity" {
				return apperrors.NewValidationError("unknown assignment target", map[string]any{
					"field": "target",
					"value": args[0],
				})
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			var name string
			var assigned []string
			if target == "zone" {
				zone, err := a.client.AssignZoneStaff(cmd.Context(), id, staffIDs)
				if err != nil {
					return err
				}
				name, assigned = zone.Nombre, zone.FotografosAsignados
			} else {
				activity, err := a.client.AssignActivityStaff(cmd.Context(), id, staffIDs)
				if err != nil {
					return err
				}
				name, assigned = activity.Nombre, activity.FotografosAsignados
			}

			out := cmd.OutOrStdout()
			if len(assigned) == 0 {
				fmt.Fprintf(out, "%s: sin fotógrafos asignados.\n", name)
				return nil
			}
			fmt.Fprintf(out, "%s: %s\n", name, strings.Join(assigned, ", "))
			return nil
		},
	}
}
