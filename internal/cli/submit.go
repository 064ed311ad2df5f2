package cli

import (
	"errors"
	"time"

	"ipclaim/internal/adapters/chain"
	"ipclaim/internal/client/submit"

	"github.com/spf13/cobra"
)

func (a *app) submitCmd() *cobra.Command {
	var form submit.Form
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a claim",
		Long: `Submit fingerprints the title and description, then asks the api to store the claim.

When a wallet is given and a chain relay is configured, an accepted claim is
also acknowledged on chain. A failed acknowledgment is reported as a warning;
the stored claim stands.

Example:
  ipclaim submit -t "My Song" -d "A short melody" -p 10 --wallet 0x1a2b
  IPCLAIM_ENDPOINT=https://api.example.com/api/create-claim ipclaim submit -t A -d B`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.settings()
			p := printer(s.Lang)

			opts := submit.Options{
				Endpoint: s.Endpoint,
				Timeout:  s.Timeout,
				Identity: submit.StaticIdentity(s.Owner),
			}
			if s.ChainRelay != "" {
				opts.Ack = chain.NewRelay(chain.Options{
					URL:      s.ChainRelay,
					Function: s.ChainFunction,
					Token:    s.ChainToken,
					Timeout:  s.ChainTimeout,
				})
			}
			wallet := submit.WalletState{Connected: s.Wallet != "", Account: s.Wallet}

			out, err := submit.New(opts).Submit(cmd.Context(), wallet, form)
			if err != nil {
				renderError(p, a.errOut, err)
				return reported{err}
			}
			renderOutcome(p, a.out, a.errOut, out)
			if out.Kind == submit.KindDuplicate {
				return reported{ErrAlreadyClaimed}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&form.Title, "title", "t", "", "claim title")
	f.StringVarP(&form.Description, "description", "d", "", "claim description")
	f.Float64VarP(&form.Price, "price", "p", 0, "asking price; negative values are stored as 0")
	f.String("owner", "", "owner recorded when no wallet is connected")
	f.String("wallet", "", "connected wallet account; it owns the claim and signs the acknowledgment")
	f.String("chain-relay", "", "relay url that signs and submits the on-chain acknowledgment")
	f.String("chain-function", chain.DefaultFunction, "entry function called by the acknowledgment")
	f.String("chain-token", "", "bearer token for the chain relay")
	f.Duration("chain-timeout", 30*time.Second, "chain relay timeout")
	for _, k := range []string{"owner", "wallet", "chain-relay", "chain-function", "chain-token", "chain-timeout"} {
		_ = a.v.BindPFlag(k, f.Lookup(k))
	}
	return cmd
}

// ErrAlreadyClaimed is returned by submit when the content was claimed before
var ErrAlreadyClaimed = errors.New("content already claimed")

// reported marks an error the command already explained to the user
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }
