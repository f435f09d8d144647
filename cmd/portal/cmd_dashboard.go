package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/portal"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard of the logged-in staff member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			boards := portal.NewDashboards(a.client, a.logger)
			out := cmd.OutOrStdout()

			if domain.StaffRole(a.profile.Staff.Role) == domain.StaffRoleAdmin {
				board, err := boards.HydrateAdmin(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Zonas: %d  Negocios: %d  Actividades: %d  Servicios: %d  Staff: %d\n",
					len(board.Zones), len(board.Businesses), len(board.Activities), len(board.Services), len(board.StaffUsers))
				fmt.Fprintf(out, "Solicitudes pendientes: %d\n", len(board.PendingApplications()))
				for _, pa := range board.PendingApplications() {
					fmt.Fprintf(out, "  %s  %s <%s>\n", pa.ID, pa.Nombre, pa.Email)
				}
				all := append(append([]domain.ClientRecord{}, board.AmbulantClients...), board.ActivityClients...)
				printClients(out, all)
				printDegraded(out, board.Degraded)
				return nil
			}

			board, err := boards.HydrateStaff(cmd.Context(), a.profile.Staff.ID)
			if err != nil {
				return err
			}
			printClients(out, append(append([]domain.ClientRecord{}, board.AmbulantClients...), board.ActivityClients...))
			printDegraded(out, board.Degraded)
			return nil
		},
	}
}

func printClients(out io.Writer, records []domain.ClientRecord) {
	pending := domain.FilterPending(records)
	completed := domain.FilterCompleted(records)
	fmt.Fprintf(out, "Pendientes: %d\n", len(pending))
	for _, rec := range pending {
		fmt.Fprintf(out, "  %s  %s  %s\n", rec.ID, rec.Nombre, rec.Telefono)
	}
	fmt.Fprintf(out, "Completados: %d\n", len(completed))
	for _, rec := range completed {
		fmt.Fprintf(out, "  %s  %s  %d fotos\n", rec.ID, rec.Nombre, len(rec.FotosSubidas))
	}
}

func printDegraded(out io.Writer, names []string) {
	if len(names) > 0 {
		fmt.Fprintf(out, "Sin conexión: %s\n", strings.Join(names, ", "))
	}
}
