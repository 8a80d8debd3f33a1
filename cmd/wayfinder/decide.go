package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	httpadapter "github.com/aretw0/wayfinder/pkg/adapters/http"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Output formats of the decide command.
const (
	formatAuto     = "auto"
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatMermaid  = "mermaid"
)

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Compute a single transition decision",
	Long: `Loads the node repository, computes one decision and prints it.
The auto format renders markdown on a terminal and JSON otherwise.`,
	Example: `  wayfinder decide --dir ./nodes --origin 12 --route 9,4 --slots 3
  wayfinder decide --origin 12 --override compass --format mermaid`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		session, _ := flags.GetString("session")
		user, _ := flags.GetString("user")
		origin, _ := flags.GetInt64("origin")
		route, _ := flags.GetInt64Slice("route")
		mode, _ := flags.GetString("mode")
		slots, _ := flags.GetInt("slots")
		overrides, _ := flags.GetStringSlice("override")
		emergency, _ := flags.GetBool("emergency")
		limitState, _ := flags.GetString("limit-state")
		format, _ := flags.GetString("format")

		ctx := context.Background()
		rt, _, err := loadRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		params := domain.ContextParams{
			SessionID:         session,
			UserID:            user,
			RouteWindow:       route,
			LimitState:        limitState,
			Mode:              mode,
			RequestedUISlots:  slots,
			ProviderOverrides: overrides,
			Emergency:         emergency,
		}
		if origin > 0 {
			params.OriginNodeID = &origin
		}

		tc := rt.Engine.NewContext(params)
		decision, err := rt.Engine.Decide(ctx, tc)
		if err != nil {
			return err
		}

		tty := term.IsTerminal(int(os.Stdout.Fd()))
		return writeDecision(cmd.OutOrStdout(), format, tty, tc, decision)
	},
}

// writeDecision prints a decision in the requested format.
func writeDecision(w io.Writer, format string, tty bool, tc domain.TransitionContext, d *domain.TransitionDecision) error {
	if format == formatAuto {
		format = formatJSON
		if tty {
			format = formatMarkdown
		}
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(httpadapter.NewTransitionResponse(uuid.NewString(), tc, d))
	case formatMarkdown:
		if !tty {
			_, err := io.WriteString(w, tui.DecisionMarkdown(d))
			return err
		}
		out, err := tui.RenderDecision(d)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case formatMermaid:
		_, err := io.WriteString(w, graph.GenerateMermaid(tc, d))
		return err
	default:
		return fmt.Errorf("unknown format %q: use auto, json, markdown or mermaid", format)
	}
}

func init() {
	rootCmd.AddCommand(decideCmd)
	f := decideCmd.Flags()
	f.String("session", "cli", "Session id")
	f.String("user", "", "Reader the decision is made for")
	f.Int64("origin", 0, "Node the reader is on (0 = none)")
	f.Int64Slice("route", nil, "Recently visited node ids, most recent first")
	f.String("mode", domain.DefaultMode, "Mode name")
	f.Int("slots", 0, "Maximum number of candidates (0 = mode default)")
	f.StringSlice("override", nil, "Restrict to these providers: compass, echo, random")
	f.Bool("emergency", false, "Bypass the decision cache")
	f.String("limit-state", "", "Caller quota state, echoed back")
	f.StringP("format", "f", formatAuto, "Output format: auto, json, markdown or mermaid")
}
