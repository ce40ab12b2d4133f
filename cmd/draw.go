// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eggwerks/eggprinter/pkg/hostsession"
	"github.com/eggwerks/eggprinter/pkg/jobfile"
)

var dryRun bool

var drawCmd = &cobra.Command{
	Use:   "draw <job-file>",
	Short: "Play a CBOR job file through the printer, one operation at a time",
	Long: `Decode a job file (see pkg/jobfile) and execute its operations in order:
begin, pen, move, dot, line, and end. Each operation is sent as its own
request/response exchange, exactly as if it had been typed one command at
a time.

If the job's Model field doesn't match --model, drawing still proceeds;
the mismatch is only reported as a warning, since Model is informational
rather than something the wire protocol itself checks.

Use --dry-run to decode and validate the job without opening a connection
or sending anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runDraw,
}

func init() {
	rootCmd.AddCommand(drawCmd)
	drawCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the job file without connecting to a printer")
}

func runDraw(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read job file: %w", err)
	}

	job, err := jobfile.Decode(data)
	if err != nil {
		return fmt.Errorf("decode job file: %w", err)
	}

	fmt.Printf("eggprinter - Draw\n")
	fmt.Printf("Job: %s (%d operations, model %q)\n", args[0], len(job.Ops), job.Model)

	if dryRun {
		fmt.Println("dry run: job file is valid, nothing sent")
		return nil
	}

	if printerModel != "" && job.Model != "" && job.Model != printerModel {
		fmt.Fprintf(os.Stderr, "warning: job was authored for model %q, printer is %q\n", job.Model, printerModel)
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("Connection: %s\n\n", connInfo)

	sess, err := hostsession.Open(conn, hostsession.Options{Model: printerModel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Open failed: %v\n", err)
		os.Exit(2)
	}
	defer sess.Close()

	for i, op := range job.Ops {
		fmt.Printf("[%d/%d] %-6s ", i+1, len(job.Ops), op.Kind)
		if err := runOp(sess, op); err != nil {
			fmt.Printf("FAIL: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("ok")
	}

	return nil
}

func runOp(sess *hostsession.Session, op jobfile.Op) error {
	switch op.Kind {
	case jobfile.OpBegin:
		return sess.SendBegin()
	case jobfile.OpEnd:
		return sess.SendEnd()
	case jobfile.OpPen:
		_, err := sess.SendPen(op.PenState())
		return err
	case jobfile.OpMove:
		_, err := sess.SendMove(op.EggwirePoints())
		return err
	case jobfile.OpDot:
		return sess.SendDot(op.At.ToEggwire())
	case jobfile.OpLine:
		return sess.SendLine(op.From.ToEggwire(), op.To.ToEggwire())
	default:
		return fmt.Errorf("unknown op kind %q", op.Kind)
	}
}
