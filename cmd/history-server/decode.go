package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ehr/records/internal/domain/patienthistory"
)

func decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode patient history JSON and print each record's type and canonical form",
		Long: "Reads a JSON object or array from file (or stdin when omitted), decodes it in the\n" +
			"chosen hierarchy and prints one line per record: the historyType, a tab, and the\n" +
			"re-encoded record. Fails with the decode error kind on bad input.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("hierarchy")
			h, err := patienthistory.ParseHierarchy(name)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runDecode(in, cmd.OutOrStdout(), h)
		},
	}
	cmd.Flags().String("hierarchy", "live", "Hierarchy to decode against: live or history")
	return cmd
}

type tagged interface {
	HistoryType() patienthistory.HistoryType
}

func runDecode(r io.Reader, w io.Writer, h patienthistory.Hierarchy) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	data = bytes.TrimSpace(data)

	var records []tagged
	if len(data) > 0 && data[0] == '[' {
		switch h {
		case patienthistory.HierarchyLive:
			items, err := patienthistory.DecodeLiveList(data)
			if err != nil {
				return err
			}
			for _, it := range items {
				records = append(records, it)
			}
		default:
			snaps, err := patienthistory.DecodeSnapshotList(data)
			if err != nil {
				return err
			}
			for _, s := range snaps {
				records = append(records, s)
			}
		}
	} else {
		v, err := patienthistory.Decode(data, h)
		if err != nil {
			return err
		}
		records = append(records, v.(tagged))
	}

	for _, rec := range records {
		var out []byte
		switch v := rec.(type) {
		case patienthistory.LiveItem:
			out, err = patienthistory.EncodeLive(v)
		case patienthistory.Snapshot:
			out, err = patienthistory.EncodeSnapshot(v)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", rec.HistoryType(), out)
	}
	return nil
}
