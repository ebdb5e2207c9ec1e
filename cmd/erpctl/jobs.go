package main

import (
	"context"
	"fmt"

	"github.com/bizledger/backend/internal/bootstrap"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reconcileCompany string

var reconcileOverdueCmd = &cobra.Command{
	Use:   "reconcile-overdue",
	Short: "Mark past-due invoices overdue",
	Long:  "Mark past-due invoices overdue for one company, or for every active company when --company is empty.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var companyID uuid.UUID
		if reconcileCompany != "" {
			id, err := uuid.Parse(reconcileCompany)
			if err != nil {
				return fmt.Errorf("invalid --company: %w", err)
			}
			companyID = id
		}
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			var (
				n   int
				err error
			)
			if companyID == uuid.Nil {
				n, err = app.Services.Overdue.ReconcileAll(ctx)
			} else {
				n, err = app.Services.Overdue.Reconcile(ctx, companyID)
			}
			if err != nil {
				return err
			}
			app.Logger.Info("Overdue reconciliation finished", zap.Int("invoices", n))
			fmt.Fprintf(cmd.OutOrStdout(), "%d invoice(s) marked overdue\n", n)
			return nil
		})
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the shared cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached report and revoked-token entry",
	Long: `Drop every key owned by the application cache.

Revoked access tokens are tracked in the same cache, so clearing it makes
them valid again until they expire.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			if err := app.Cache.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		})
	},
}

func init() {
	reconcileOverdueCmd.Flags().StringVar(&reconcileCompany, "company", "", "company id (default: all active companies)")
	rootCmd.AddCommand(reconcileOverdueCmd)

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
