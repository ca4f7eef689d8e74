package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/orderhub/orderhub/internal/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		subject int64
		roles   []string
		ttl     time.Duration
		secret  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed bearer token",
		Long: `Mint an HS256 JWT for testing or for configuring the MCP server.
Roles use the same grammar the server authorizes with: "CreateOrder" grants
the subject's own account, "7/CreateOrder" grants account 7, "Admin" grants
every operation.`,
		Example: `  orderhub token --subject 5 --role CreateOrder --role GetOrder
  orderhub token --subject 1 --role Admin --ttl 24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(subject, roles, ttl, secret)
		},
	}

	cmd.Flags().Int64Var(&subject, "subject", 0, "Numeric subject (user id) for the token")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "Role claim entry; repeatable")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime; 0 mints a token without an exp claim")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret; prompted for when omitted")
	cmd.MarkFlagRequired("subject")

	return cmd
}

func runToken(subject int64, roles []string, ttl time.Duration, secret string) error {
	cfg := loadConfig()

	if secret == "" {
		secret = cfg.Auth.JWTSecret
	}
	if secret == "" {
		fmt.Fprint(os.Stderr, "Signing secret: ")
		secretBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read secret: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		secret = string(secretBytes)
	}
	if secret == "" {
		return fmt.Errorf("a signing secret is required")
	}

	token, err := auth.Mint(auth.MintInput{
		Subject:   subject,
		Roles:     roles,
		Issuer:    cfg.Auth.Issuer,
		Audience:  cfg.Auth.Audience,
		RoleClaim: cfg.Auth.RoleClaim,
		TTL:       ttl,
	}, secret)
	if err != nil {
		return fmt.Errorf("mint token: %w", err)
	}

	fmt.Println(token)
	return nil
}
