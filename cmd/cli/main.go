package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/iho/draftledger/internal/adapter/http/dto"
)

type options struct {
	baseURL string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "draftctl",
		Short:         "DraftLedger CLI tool",
		Long:          `Upload documents to DraftLedger, review the extracted drafts and confirm or cancel them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the DraftLedger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Request timeout")

	rootCmd.AddCommand(
		importCmd(opts),
		showCmd(opts),
		confirmCmd(opts),
		cancelCmd(opts),
	)

	return rootCmd
}

func (o *options) client() *apiClient {
	return newAPIClient(o.baseURL, &http.Client{Timeout: o.timeout})
}

func importCmd(opts *options) *cobra.Command {
	var (
		accountID string
		currency  string
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Extract drafts from a document and confirm them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := opts.client()
			out := cmd.OutOrStdout()

			session, err := client.upload(ctx, args[0], accountID, currency)
			if err != nil {
				return err
			}

			switch session.Outcome {
			case "parse_failed":
				fmt.Fprintf(out, "could not read the extraction output for import %s\n", session.ID)
				for i, d := range session.Diagnostics {
					fmt.Fprintf(out, "--- response %d ---\n%s\n", i+1, d)
				}
				return nil
			case "no_transactions":
				fmt.Fprintln(out, "no transactions found")
				return nil
			}

			printImport(out, session)

			if yes {
				return confirmAndPrint(ctx, client, out, session.ID, nil)
			}

			return runGate(ctx, client, bufio.NewReader(cmd.InOrStdin()), out, session)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account the transactions belong to")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency hint, e.g. INR")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm all drafts without prompting")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func showCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an import and its drafts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := opts.client().get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printImport(cmd.OutOrStdout(), session)
			return nil
		},
	}
}

func confirmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm all drafts of a pending import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return confirmAndPrint(cmd.Context(), opts.client(), cmd.OutOrStdout(), args[0], nil)
		},
	}
}

func cancelCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := opts.client().cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "import %s %s\n", session.ID, session.Status)
			return nil
		},
	}
}

// runGate prompts until the user confirms, cancels, or removes every draft.
func runGate(ctx context.Context, client *apiClient, in *bufio.Reader, out io.Writer, session *dto.ImportResponse) error {
	drafts := session.Drafts
	edited := false

	for {
		fmt.Fprint(out, "confirm? [y/N/e(dit)] ")
		answer, err := readLine(in)
		if err != nil {
			return err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			var reviewed []dto.DraftRequest
			if edited {
				reviewed = toDraftRequests(drafts)
			}
			return confirmAndPrint(ctx, client, out, session.ID, reviewed)

		case "", "n", "no":
			return cancelAndPrint(ctx, client, out, session.ID)

		case "e", "edit":
			fmt.Fprint(out, "remove drafts (comma separated #): ")
			line, err := readLine(in)
			if err != nil {
				return err
			}

			remove, err := parseIndices(line, len(drafts))
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}

			drafts = removeDrafts(drafts, remove)
			edited = true

			if len(drafts) == 0 {
				fmt.Fprintln(out, "no drafts left")
				return cancelAndPrint(ctx, client, out, session.ID)
			}
			printDrafts(out, drafts)

		default:
			fmt.Fprintf(out, "unknown answer %q\n", answer)
		}
	}
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func confirmAndPrint(ctx context.Context, client *apiClient, out io.Writer, id string, drafts []dto.DraftRequest) error {
	summary, err := client.confirm(ctx, id, drafts, ulid.Make().String())
	if err != nil {
		return err
	}
	printSummary(out, summary)
	return nil
}

func cancelAndPrint(ctx context.Context, client *apiClient, out io.Writer, id string) error {
	session, err := client.cancel(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "import %s %s, nothing was saved\n", session.ID, session.Status)
	return nil
}

// parseIndices parses 1-based draft numbers as printed in the table.
func parseIndices(s string, n int) (map[int]bool, error) {
	result := make(map[int]bool)
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		i, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid draft number %q", field)
		}
		if i < 1 || i > n {
			return nil, fmt.Errorf("draft number %d out of range 1-%d", i, n)
		}
		result[i-1] = true
	}
	return result, nil
}

func removeDrafts(drafts []dto.DraftResponse, remove map[int]bool) []dto.DraftResponse {
	kept := make([]dto.DraftResponse, 0, len(drafts))
	for i, d := range drafts {
		if !remove[i] {
			kept = append(kept, d)
		}
	}
	return kept
}

func toDraftRequests(drafts []dto.DraftResponse) []dto.DraftRequest {
	reqs := make([]dto.DraftRequest, len(drafts))
	for i, d := range drafts {
		reqs[i] = dto.DraftRequest{
			Amount:       d.Amount,
			IsExpense:    d.IsExpense,
			Note:         d.Note,
			CategoryHint: d.CategoryHint,
			Date:         d.Date.Format(time.RFC3339),
		}
	}
	return reqs
}

func printImport(w io.Writer, session *dto.ImportResponse) {
	fmt.Fprintf(w, "import %s (%s, %s) account=%s currency=%s\n",
		session.ID, session.Status, session.Outcome, session.AccountID, session.Currency)
	fmt.Fprintf(w, "chunks=%d failed=%d unparsed=%d duplicates=%d\n",
		session.Stats.Chunks, session.Stats.FailedChunks, session.Stats.UnparsedChunks, session.Stats.Collapsed)
	if len(session.Drafts) > 0 {
		printDrafts(w, session.Drafts)
	}
}

func printDrafts(w io.Writer, drafts []dto.DraftResponse) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Date", "Type", "Amount", "Note", "Category"})
	table.SetAutoWrapText(false)

	for i, d := range drafts {
		kind := "income"
		if d.IsExpense {
			kind = "expense"
		}
		date := d.Date.Format("2006-01-02")
		if d.DateInferred {
			date += "*"
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			date,
			kind,
			d.Amount.StringFixed(2),
			truncate(deref(d.Note), 40),
			deref(d.CategoryHint),
		})
	}

	table.Render()
}

func printSummary(w io.Writer, s *dto.CommitSummaryResponse) {
	fmt.Fprintf(w, "created %d of %d transactions for import %s\n", s.Created, s.Submitted, s.ImportID)

	failed := make([]dto.CommitRecordResponse, 0, s.Failed)
	for _, r := range s.Records {
		if r.Error != "" {
			failed = append(failed, r)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].Index < failed[j].Index })
	for _, r := range failed {
		fmt.Fprintf(w, "  draft %d failed: %s\n", r.Index+1, r.Error)
	}

	if s.ReceiptAttached {
		fmt.Fprintln(w, "receipt attached")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
