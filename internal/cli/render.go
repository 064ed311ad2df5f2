package cli

import (
	"errors"
	"io"
	"time"

	"ipclaim/internal/client/submit"
	perr "ipclaim/internal/platform/errors"

	"golang.org/x/text/message"
)

// timeLayout renders claim timestamps in the reader's local zone
const timeLayout = "2006-01-02 15:04:05 MST"

func renderOutcome(p *message.Printer, out, errOut io.Writer, o submit.Outcome) {
	c := o.Claim
	switch o.Kind {
	case submit.KindDuplicate:
		p.Fprintf(out, "Duplicate found: already claimed by %s on %s (ID: %s)\n",
			c.OwnerOr("an anonymous owner"), c.CreatedAt.In(time.Local).Format(timeLayout), c.ID)
	default:
		p.Fprintf(out, "IP claimed successfully. Reference ID: %s\n", c.ID)
		p.Fprintf(out, "Fingerprint: %s\n", c.ContentHash)
		p.Fprintf(out, "Price: %.2f\n", c.Price)
		if o.AckTx != "" {
			p.Fprintf(out, "On-chain acknowledgment submitted: %s\n", o.AckTx)
		}
		if o.AckWarning != nil {
			p.Fprintf(errOut, "Warning: on-chain acknowledgment failed (%v); the claim is stored.\n", o.AckWarning)
		}
	}
}

func renderError(p *message.Printer, errOut io.Writer, err error) {
	msg := perr.WireFrom(err).Message
	switch {
	case errors.Is(err, submit.ErrValidation):
		p.Fprintf(errOut, "Claim rejected: %s\n", msg)
	case errors.Is(err, submit.ErrOutcomeUnknown):
		p.Fprintf(errOut, "Submission outcome unknown (%s). Retrying is safe; it may report your own claim as a duplicate.\n", msg)
	default:
		p.Fprintf(errOut, "Failed to submit claim: %s\n", msg)
	}
}
