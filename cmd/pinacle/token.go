package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/kryptograf/keymgmt"
	"pkt.systems/pinacle/internal/appconfig"
	"pkt.systems/pinacle/internal/tokenstore"
	"pkt.systems/pslog"
)

func newTokenCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the control-plane API token",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	cmd.AddCommand(newTokenSetCmd(&cfgPath))
	cmd.AddCommand(newTokenShowCmd(&cfgPath))
	cmd.AddCommand(newTokenClearCmd(&cfgPath))

	return cmd
}

func newTokenSetCmd(cfgPath *string) *cobra.Command {
	var fromStdin bool
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the control-plane token encrypted at rest",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := resolveToken(cmd, fromStdin)
			if err != nil {
				return err
			}
			store, err := openTokenStore(cmd, *cfgPath)
			if err != nil {
				return err
			}
			if err := store.Save(token); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "token stored")
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "token-from-stdin", false, "read the token from stdin instead of prompting")
	return cmd
}

func newTokenShowCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored control-plane token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openTokenStore(cmd, *cfgPath)
			if err != nil {
				return err
			}
			token, err := store.Load()
			if err != nil {
				if errors.Is(err, tokenstore.ErrNoToken) {
					return fmt.Errorf("no token stored; run: pinacle token set")
				}
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func newTokenClearCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored control-plane token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openTokenStore(cmd, *cfgPath)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "token cleared")
			return nil
		},
	}
}

func openTokenStore(cmd *cobra.Command, cfgPath string) (*tokenstore.Store, error) {
	cfg, err := appconfig.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger := pslog.Ctx(cmd.Context())
	return tokenstore.NewStoreWithLogger(cfg.ControlPlane.KeyStorePath, cfg.ControlPlane.TokenFile, logger)
}

func resolveToken(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", errors.New("token from stdin is empty")
		}
		return token, nil
	}
	secret, err := keymgmt.PromptPassphrase(cmd.InOrStdin(), "Control-plane token: ", cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(secret))
	if token == "" {
		return "", errors.New("token is empty")
	}
	return token, nil
}
