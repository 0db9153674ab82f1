package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flipforge/dealshield/internal/model"
	"github.com/flipforge/dealshield/internal/shield"
	"github.com/flipforge/dealshield/internal/workbench"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Submit a reviewed draft for analysis",
	Long: `Submit a reviewed draft to the analysis service.

The draft is checked locally first: purchase_price and arv must be > 0 and
rehab_budget >= 0. A failing draft is never sent. When the service rejects the
draft for missing fields, the draft is kept and the fields are listed so they
can be fixed with --set.

Examples:
  dealshield finalize --draft deal.yaml --out result.json
  dealshield finalize --draft deal.json --set arv=245000 --address "12 Oak St" --out result.yaml`,
	RunE: runFinalize,
}

func init() {
	f := finalizeCmd.Flags()
	f.String("draft", "", "draft file to submit (.json, .yaml)")
	f.StringArray("set", nil, "field=value edit applied before submitting, repeatable")
	f.String("out", "", "write the result and export meta to this file")
	addFinancingFlags(finalizeCmd)
	_ = finalizeCmd.MarkFlagRequired("draft")
	rootCmd.AddCommand(finalizeCmd)
}

func runFinalize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	draftPath, _ := cmd.Flags().GetString("draft")
	sets, _ := cmd.Flags().GetStringArray("set")
	outPath, _ := cmd.Flags().GetString("out")

	var d model.Draft
	if err := readDoc(draftPath, &d); err != nil {
		return eris.Wrap(err, "finalize: load draft")
	}
	edits, err := parseSets(sets)
	if err != nil {
		return eris.Wrap(err, "finalize")
	}

	w := newWorkbench(cmd)
	w.LoadDraft(d)
	if err := applySets(w, edits); err != nil {
		return eris.Wrap(err, "finalize")
	}

	out := cmd.OutOrStdout()
	outcome, err := w.Finalize(ctx)
	if err != nil {
		var ve *workbench.ValidationError
		if errors.As(err, &ve) {
			current, _ := w.Draft()
			printDraft(out, current, shield.Highlights(current, ve.Fields))
		}
		return eris.Wrap(err, "finalize")
	}

	if !outcome.OK {
		current, _ := w.Draft()
		printDraft(out, current, w.Highlights())
		if len(outcome.MissingFields) > 0 {
			fmt.Fprintf(out, "Service needs: %s\n", strings.Join(outcome.MissingFields, ", "))
		}
		if len(edits) > 0 {
			if err := saveDoc(draftPath, current); err != nil {
				return eris.Wrap(err, "finalize: save draft")
			}
			zap.L().Info("finalize: kept edited draft", zap.String("path", draftPath))
		}
		return eris.New("finalize: draft rejected, fix the fields above and retry")
	}

	res := w.Result()
	printResult(out, res)

	if outPath != "" {
		if err := saveDoc(outPath, resultFile{Result: res, Meta: w.Meta()}); err != nil {
			return eris.Wrap(err, "finalize: save result")
		}
		fmt.Fprintf(out, "Result saved to %s\n", outPath)
	}
	return nil
}
