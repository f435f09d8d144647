package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newApproveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <application-id>",
		Short: "Approve a staff application and print the activation link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			approval, err := a.staff.Approve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> aprobado.\n%s\n", approval.Nombre, approval.Email, approval.ActivationLink)
			return nil
		},
	}
}

func newRejectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <application-id>",
		Short: "Reject a staff application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rejected, err := a.staff.Reject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Solicitud %s rechazada.\n", rejected.ID)
			return nil
		},
	}
}

func newValidateTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-token <token>",
		Short: "Show who an activation token belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := a.staff.ValidateToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", identity.Nombre, identity.Email)
			return nil
		},
	}
}

func newActivateCmd(a *app) *cobra.Command {
	var password, confirmation string
	cmd := &cobra.Command{
		Use:   "activate <token>",
		Short: "Activate a staff account with its first password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.staff.Activate(cmd.Context(), args[0], password, confirmation)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cuenta de %s activada.\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&confirmation, "confirm", "", "password confirmation")
	return cmd
}

func newChangePasswordCmd(a *app) *cobra.Command {
	var email, current, next, confirmation string
	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Replace a staff password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" && a.profile != nil {
				email = a.profile.Staff.Email
			}
			if err := a.staff.ChangePassword(cmd.Context(), email, current, next, confirmation); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Contraseña actualizada.")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (defaults to the logged-in user)")
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	cmd.Flags().StringVar(&confirmation, "confirm", "", "new password confirmation")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a staff session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := a.staff.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			a.profile = profile
			fmt.Fprintf(cmd.OutOrStdout(), "Bienvenido, %s (%s).\n", profile.Staff.Nombre, profile.Staff.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "staff email")
	cmd.Flags().StringVar(&password, "password", "", "staff password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the stored staff session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.staff.Logout(cmd.Context()); err != nil {
				return err
			}
			a.profile = nil
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada.")
			return nil
		},
	}
}
