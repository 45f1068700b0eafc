package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Iron-Ham/moyu/internal/config"
	"github.com/Iron-Ham/moyu/internal/dashboard"
	"github.com/Iron-Ham/moyu/internal/locale"
	"github.com/spf13/cobra"
)

// Output formats of 'moyu snapshot'.
const (
	formatText = "text"
	formatJSON = "json"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print every slot once and exit",
	Long: `Refresh every slot once, wait for the joke and print the result.

Examples:
  # Plain text, one slot per line
  moyu snapshot

  # JSON, as served by 'moyu serve' at /api/slots
  moyu snapshot --format json

  # Skip the network; the joke slot shows the fallback text
  moyu snapshot --no-joke`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

var (
	snapshotFormat string
	snapshotNoJoke bool
)

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVar(&snapshotFormat, "format", formatText, "output format (text/json)")
	snapshotCmd.Flags().BoolVar(&snapshotNoJoke, "no-joke", false, "do not fetch a joke")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if snapshotFormat != formatText && snapshotFormat != formatJSON {
		return fmt.Errorf("invalid format %q: expected %s or %s", snapshotFormat, formatText, formatJSON)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return runSnapshotWith(cmd, cfg, snapshotFormat, snapshotNoJoke)
}

// runSnapshotWith refreshes a fresh board once and prints it in format.
func runSnapshotWith(cmd *cobra.Command, cfg *config.Config, format string, noJoke bool) error {
	logger, err := newLogger(cfg.Logging, "")
	if err != nil {
		return err
	}
	defer logger.Close()

	deps, err := buildDashboard(cfg, logger, noJoke)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The provider's own timeout bounds the wait
	deps.refresher.RefreshAll(ctx)
	deps.refresher.Wait()

	snap := deps.board.Snapshot()
	out := cmd.OutOrStdout()
	if format == formatJSON {
		return writeSnapshotJSON(out, snap)
	}
	return writeSnapshotText(out, snap, deps.format)
}

func writeSnapshotJSON(w io.Writer, snap dashboard.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// writeSnapshotText prints one visible slot per line, labelled in the
// dashboard's locale.
func writeSnapshotText(w io.Writer, snap dashboard.Snapshot, format *locale.Formatter) error {
	var sb strings.Builder
	sb.WriteString(format.Text(locale.KeyTitle))
	sb.WriteString("\n\n")

	for _, slot := range snap.Slots {
		if !slot.Visible {
			continue
		}
		text := slot.Text
		if len(slot.Items) > 0 {
			text = strings.Join(slot.Items, "、")
		}
		sb.WriteString(slotLabel(slot.Name, format))
		sb.WriteString("：")
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// slotLabel returns the display label of a slot name.
func slotLabel(name string, format *locale.Formatter) string {
	if label, ok := dashboard.TargetLabel(name); ok {
		return label
	}
	switch name {
	case dashboard.SlotDate:
		return format.Text(locale.KeyToday)
	case dashboard.SlotWeekend:
		return format.Text(locale.KeyWeekend)
	case dashboard.SlotFact:
		return format.Text(locale.KeyFact)
	case dashboard.SlotTip:
		return format.Text(locale.KeyTip)
	case dashboard.SlotJoke:
		return format.Text(locale.KeyJoke)
	case dashboard.SlotRecommended:
		return format.Text(locale.KeyRecommended)
	case dashboard.SlotDiscouraged:
		return format.Text(locale.KeyDiscouraged)
	case dashboard.SlotWorkout:
		return format.Text(locale.KeyWorkout)
	default:
		return name
	}
}
