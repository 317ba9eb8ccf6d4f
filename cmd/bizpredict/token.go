package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/internal/usecases/authenticating"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the job endpoints",
		Long: `Token signs a JWT with AUTH_SECRET. Use it as
"Authorization: Bearer <token>" on /api/jobs routes.`,
		RunE: runToken,
	}

	cmd.Flags().String("subject", "operator", "token subject")
	cmd.Flags().String("role", domain.RoleOperator, "role claim")

	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	role, _ := cmd.Flags().GetString("role")

	token, err := authenticating.NewService(cfg.Auth).IssueToken(subject, role)
	if err != nil {
		return err
	}

	fmt.Fprintln(out(cmd), token)
	return nil
}
