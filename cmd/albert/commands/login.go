package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/albert-client/internal/auth"
	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/pkg/albertclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint  string
		clientID     string
		clientSecret string
		token        string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Albert API",
		Long: `Log in with OAuth client credentials, or store a static token.

The client secret is prompted for when not given. The token obtained is saved
to the config file and refreshed automatically when it expires.`,
		Example: `  albert login --client-id my-client
  albert login --api https://app.albertinvent.com --token $ALBERT_TOKEN`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			config := loadConfig()

			if apiEndpoint == "" {
				apiEndpoint = config.API
			}

			if apiEndpoint == "" {
				apiEndpoint = constants.DefaultBaseURL
			}

			baseURL, err := albertclient.NormalizeBaseURL(apiEndpoint)
			if err != nil {
				return fmt.Errorf("invalid API endpoint: %w", err)
			}

			config.API = baseURL

			if token != "" {
				config.Token = token
				config.TokenExpiresAt = nil
				config.ClientID = ""
				config.ClientSecret = ""

				if err := saveConfig(config); err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Token saved for %s\n", baseURL)

				return nil
			}

			if clientID == "" {
				return constants.ErrClientIDRequired
			}

			if clientSecret == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Client secret: ")

				secret, err := term.ReadPassword(int(os.Stdin.Fd()))
				if err != nil {
					return fmt.Errorf("failed to read client secret: %w", err)
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				clientSecret = string(secret)
			}

			manager, err := auth.NewClientCredentialsManager(&auth.ClientCredentialsConfig{
				TokenURL:     baseURL + constants.PathToken,
				ClientID:     clientID,
				ClientSecret: clientSecret,
			})
			if err != nil {
				return err
			}

			if err := manager.RefreshToken(ctx); err != nil {
				return fmt.Errorf("failed to log in: %w", err)
			}

			current := manager.Current()
			if current == nil {
				return auth.ErrNoToken
			}

			config.ClientID = clientID
			config.ClientSecret = clientSecret
			config.Token = current.AccessToken
			config.TokenExpiresAt = nil

			if !current.ExpiresAt.IsZero() {
				expiresAt := current.ExpiresAt
				config.TokenExpiresAt = &expiresAt
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", baseURL, clientID)

			return nil
		},
	}

	cmd.Flags().StringVar(&apiEndpoint, "api", "", "API endpoint URL")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	cmd.Flags().StringVar(&token, "token", "", "static access token")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = ""
			config.TokenExpiresAt = nil
			config.ClientID = ""
			config.ClientSecret = ""

			// flags and environment still feed loadConfig; clear them for this process
			viper.Set("token", "")
			viper.Set("client_id", "")
			viper.Set("client_secret", "")

			if err := saveConfig(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}
