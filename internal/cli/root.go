// Package cli is the ipclaim command line client
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ipclaim/internal/client/submit"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EnvPrefix namespaces environment overrides, e.g. IPCLAIM_ENDPOINT
const EnvPrefix = "IPCLAIM"

// Settings is the resolved client configuration (flags > env > config file > defaults)
type Settings struct {
	Endpoint      string
	Timeout       time.Duration
	Owner         string
	Wallet        string
	ChainRelay    string
	ChainFunction string
	ChainToken    string
	ChainTimeout  time.Duration
	Lang          string
}

type app struct {
	v       *viper.Viper
	cfgFile string
	out     io.Writer
	errOut  io.Writer
}

// NewRoot builds the command tree writing results to out and diagnostics to errOut
func NewRoot(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "ipclaim",
		Short: "Claim authorship of content by fingerprint",
		Long: `ipclaim submits claims to an ipclaim api.

A claim is keyed by the sha256 fingerprint of "<title>|<description>".
The first submission of some content is stored; later ones report the
earlier claim and its owner.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (IPCLAIM_*)
3. Config file (~/.ipclaim/config.yaml)
4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.ipclaim/config.yaml)")
	pf.String("endpoint", submit.DefaultEndpoint, "claim submission url")
	pf.Duration("timeout", 15*time.Second, "submission timeout; on expiry the outcome is unknown")
	pf.String("lang", "en", "output language tag")
	for _, k := range []string{"endpoint", "timeout", "lang"} {
		_ = a.v.BindPFlag(k, pf.Lookup(k))
	}

	root.AddCommand(a.submitCmd(), a.fingerprintCmd(), a.versionCmd())
	return root
}

// Execute runs the command tree with os args
func Execute(ctx context.Context) error {
	err := NewRoot(os.Stdout, os.Stderr).ExecuteContext(ctx)
	var r reported
	if err != nil && !errors.As(err, &r) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func (a *app) initConfig() error {
	v := a.v
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
		return v.ReadInConfig()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(filepath.Join(home, ".ipclaim"))
	v.SetConfigType("yaml")
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return err
	}
	return nil
}

func (a *app) settings() Settings {
	v := a.v
	return Settings{
		Endpoint:      strings.TrimSpace(v.GetString("endpoint")),
		Timeout:       v.GetDuration("timeout"),
		Owner:         strings.TrimSpace(v.GetString("owner")),
		Wallet:        strings.TrimSpace(v.GetString("wallet")),
		ChainRelay:    strings.TrimSpace(v.GetString("chain-relay")),
		ChainFunction: strings.TrimSpace(v.GetString("chain-function")),
		ChainToken:    v.GetString("chain-token"),
		ChainTimeout:  v.GetDuration("chain-timeout"),
		Lang:          v.GetString("lang"),
	}
}

// printer localizes output; unknown tags fall back to english
func printer(tag string) *message.Printer {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		t = language.English
	}
	return message.NewPrinter(t)
}
