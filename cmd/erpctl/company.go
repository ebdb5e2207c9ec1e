package main

import (
	"context"
	"fmt"
	"os"

	companyapp "github.com/bizledger/backend/internal/application/company"
	"github.com/bizledger/backend/internal/bootstrap"
	"github.com/spf13/cobra"
)

var bootstrapInput companyapp.BootstrapInput

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create a company and its first administrator",
	Long: `Create a company together with its first user.

The password is read from --password or, when the flag is empty, from the
BIZLEDGER_ADMIN_PASSWORD environment variable. The user is a super_admin
unless --role says otherwise.`,
	Example: `  erpctl bootstrap --company "Acme Ltd" --email owner@acme.test --name "Jo Owner"
  erpctl bootstrap --company "Acme Ltd" --email owner@acme.test --role company_admin`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := bootstrapInput
		if in.AdminPassword == "" {
			in.AdminPassword = os.Getenv("BIZLEDGER_ADMIN_PASSWORD")
		}
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			res, err := app.Services.Company.Bootstrap(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "company %s\nuser    %s (%s)\n", res.CompanyID, res.UserID, res.Role)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)

	f := bootstrapCmd.Flags()
	f.StringVar(&bootstrapInput.CompanyName, "company", "", "company name")
	f.StringVar(&bootstrapInput.CompanyEmail, "company-email", "", "company contact email")
	f.StringVar(&bootstrapInput.AdminName, "name", "", "administrator display name")
	f.StringVar(&bootstrapInput.AdminEmail, "email", "", "administrator login email")
	f.StringVar(&bootstrapInput.AdminPassword, "password", "", "administrator password")
	f.StringVar(&bootstrapInput.AdminRole, "role", "", "administrator role (default super_admin)")
	_ = bootstrapCmd.MarkFlagRequired("company")
	_ = bootstrapCmd.MarkFlagRequired("email")
}
