package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/iho/porket/internal/adapter/http/dto"
	"github.com/iho/porket/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient talks to the porket JSON API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

type options struct {
	baseURL string
	timeout time.Duration
	asJSON  bool
}

func (o *options) client() *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(o.baseURL, "/"),
		http:    &http.Client{Timeout: o.timeout},
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "porket-cli",
		Short:         "Porket CLI tool",
		Long:          `A command line interface for recording and reviewing transactions through the Porket API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("PORKET_URL", "http://localhost:8080"), "Base URL of the Porket API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		transactionsCmd(opts),
		summaryCmd(opts),
		breakdownCmd(opts),
		exportCmd(opts),
	)

	return rootCmd
}

func transactionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Transaction operations",
	}

	cmd.AddCommand(listCmd(opts), addCmd(opts), deleteCmd(opts))
	return cmd
}

func listCmd(opts *options) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.TransactionListResponse
			path := "/api/v1/transactions?page=" + strconv.Itoa(page)
			if err := opts.client().getJSON(path, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return printJSON(out, resp)
			}
			if resp.Total == 0 {
				fmt.Fprintln(out, "No transactions yet")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tCATEGORY\tNOTE\tID")
			for _, tx := range resp.Transactions {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					tx.OccurredAt,
					tx.Kind,
					tx.Amount,
					orDash(tx.Category),
					truncate(deref(tx.Note), 30),
					tx.ID,
				)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "Page %d of %d (%d transactions)\n", resp.Page, resp.TotalPages, resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func addCmd(opts *options) *cobra.Command {
	var (
		req            dto.CreateTransactionRequest
		amount         string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Amount = json.Number(amount)
			if req.OccurredAt == "" {
				req.OccurredAt = time.Now().Format(domain.DateLayout)
			}
			if idempotencyKey == "" {
				idempotencyKey = ulid.Make().String()
			}

			var resp dto.TransactionResponse
			if err := opts.client().sendJSON(http.MethodPost, "/api/v1/transactions", idempotencyKey, req, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return printJSON(out, resp)
			}
			fmt.Fprintf(out, "Added %s %s on %s (%s)\n", resp.Kind, resp.Amount, resp.OccurredAt, resp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Kind, "kind", "expense", "income or expense")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 12.50")
	cmd.Flags().StringVar(&req.Category, "category", "", "Category")
	cmd.Flags().StringVar(&req.Note, "note", "", "Note")
	cmd.Flags().StringVar(&req.OccurredAt, "date", "", "Date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header (default random)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func deleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := opts.client().sendJSON(http.MethodDelete, "/api/v1/transactions/"+url.PathEscape(id), "", nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

func summaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show this month's income, expenses and balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.MonthlySummaryResponse
			if err := opts.client().getJSON("/api/v1/summary/monthly", &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return printJSON(out, resp)
			}
			fmt.Fprintln(out, resp.MonthLabel)
			fmt.Fprintf(out, "Income:       %s\n", resp.TotalIncome)
			fmt.Fprintf(out, "Expenses:     %s\n", resp.TotalExpense)
			fmt.Fprintf(out, "Net balance:  %s\n", resp.NetBalance)
			fmt.Fprintf(out, "Transactions: %d\n", resp.TransactionCount)
			return nil
		},
	}
}

func breakdownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown",
		Short: "Show this month's expenses by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.CategoryBreakdownResponse
			if err := opts.client().getJSON("/api/v1/summary/categories", &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return printJSON(out, resp)
			}
			if len(resp.Categories) == 0 {
				fmt.Fprintf(out, "No expense data for %s\n", resp.MonthLabel)
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tSHARE")
			for _, c := range resp.Categories {
				fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n", c.Category, c.Amount, c.Percentage)
			}
			fmt.Fprintf(tw, "Total\t%s\t\n", resp.Total)
			return tw.Flush()
		},
	}
}

func exportCmd(opts *options) *cobra.Command {
	var format, dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download every transaction as a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, filename, count, err := opts.client().download("/api/v1/export?format=" + url.QueryEscape(format))
			if err != nil {
				return err
			}

			if filename == "" {
				filename = domain.ExportFilename(domain.ExportFormat(format), time.Now())
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			path := filepath.Join(dir, filepath.Base(filename))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s transactions to %s\n", count, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "csv, json or xlsx")
	cmd.Flags().StringVar(&dir, "out", ".", "Output directory")
	return cmd
}

func (c *apiClient) getJSON(path string, out any) error {
	return c.do(http.MethodGet, path, "", nil, out)
}

func (c *apiClient) sendJSON(method, path, idempotencyKey string, body, out any) error {
	return c.do(method, path, idempotencyKey, body, out)
}

func (c *apiClient) do(method, path, idempotencyKey string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *apiClient) download(path string) (data []byte, filename, count string, err error) {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return nil, "", "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", "", errors.New("no transactions to export")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", "", apiError(resp)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", "", fmt.Errorf("read export: %w", err)
	}

	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}

	return data, filename, resp.Header.Get("X-Export-Count"), nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var e dto.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if e.Message != "" {
		return fmt.Errorf("%s: %s (status %d)", e.Error, e.Message, resp.StatusCode)
	}
	return fmt.Errorf("%s (status %d)", e.Error, resp.StatusCode)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
