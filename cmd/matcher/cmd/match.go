package cmd

import (
	"context"
	"fmt"
	"os"

	"invoice-payment-matcher/cmd/matcher/config"
	"invoice-payment-matcher/internal/reconciler"
	"invoice-payment-matcher/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the match command
var (
	invoicesFile    string
	paymentsFile    string
	outputDir       string
	similarityKind  string
	dateWindow      int
	amountTolerance float64
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match payments against invoices",
	Long: `Match compares payment records with outstanding invoices and links
each payment to at most one invoice.

Three rules are tried in priority order: an explicit invoice reference
in the payment memo, an exact amount near the due date, and fuzzy
payer-name similarity with amount and date tolerance. Results are
written as three CSV files (matches, unmatched payments, unmatched
invoices) and a JSON summary is printed to stdout.

Examples:
  # Basic matching with default output directory (out/)
  matcher match --invoices invoices.csv --payments payments.csv

  # Custom output directory and wider date window
  matcher match --invoices invoices.csv --payments payments.csv \
    --out reports/ --date-window 30

  # Exact-equality name comparison instead of fuzzy scoring
  matcher match --invoices invoices.csv --payments payments.csv \
    --similarity exact`,

	PreRunE: validateMatchFlags,
	RunE:    runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVarP(&invoicesFile, "invoices", "i", "", "path to invoice CSV file (required)")
	matchCmd.Flags().StringVarP(&paymentsFile, "payments", "p", "", "path to payment CSV file (required)")
	matchCmd.Flags().StringVarP(&outputDir, "out", "o", "out", "output directory for report files")

	matchCmd.Flags().StringVar(&similarityKind, "similarity", "token", "name similarity scorer: token, exact")
	matchCmd.Flags().IntVar(&dateWindow, "date-window", 14, "date matching window in days")
	matchCmd.Flags().Float64Var(&amountTolerance, "amount-tolerance", 0.10, "relative amount tolerance for fuzzy matching (0.0-1.0)")

	matchCmd.MarkFlagRequired("invoices")
	matchCmd.MarkFlagRequired("payments")

	viper.BindPFlag("invoices", matchCmd.Flags().Lookup("invoices"))
	viper.BindPFlag("payments", matchCmd.Flags().Lookup("payments"))
	viper.BindPFlag("out", matchCmd.Flags().Lookup("out"))
	viper.BindPFlag("similarity", matchCmd.Flags().Lookup("similarity"))
	viper.BindPFlag("date-window", matchCmd.Flags().Lookup("date-window"))
	viper.BindPFlag("amount-tolerance", matchCmd.Flags().Lookup("amount-tolerance"))
}

func validateMatchFlags(cmd *cobra.Command, args []string) error {
	// Viper values allow overrides from config file and environment.
	invoicesFile = viper.GetString("invoices")
	paymentsFile = viper.GetString("payments")
	outputDir = viper.GetString("out")
	similarityKind = viper.GetString("similarity")
	dateWindow = viper.GetInt("date-window")
	amountTolerance = viper.GetFloat64("amount-tolerance")

	if invoicesFile == "" {
		return fmt.Errorf("invoices file is required")
	}
	if paymentsFile == "" {
		return fmt.Errorf("payments file is required")
	}
	if outputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	if err := validateFileExists(invoicesFile, "invoice file"); err != nil {
		return err
	}
	if err := validateFileExists(paymentsFile, "payment file"); err != nil {
		return err
	}

	validScorers := map[string]bool{"token": true, "exact": true}
	if !validScorers[similarityKind] {
		return fmt.Errorf("invalid similarity scorer '%s'. Valid scorers: token, exact", similarityKind)
	}

	if dateWindow < 0 {
		return fmt.Errorf("date window cannot be negative")
	}
	if amountTolerance < 0.0 || amountTolerance > 1.0 {
		return fmt.Errorf("amount tolerance must be between 0.0 and 1.0")
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting matching...\n")
		fmt.Fprintf(os.Stderr, "Invoice file: %s\n", invoicesFile)
		fmt.Fprintf(os.Stderr, "Payment file: %s\n", paymentsFile)
		fmt.Fprintf(os.Stderr, "Output directory: %s\n", outputDir)
	}

	reconcilerConfig, err := config.CreateReconcilerConfig(similarityKind, dateWindow, amountTolerance)
	if err != nil {
		return fmt.Errorf("failed to create matching config: %w", err)
	}

	service, err := reconciler.NewService(reconcilerConfig)
	if err != nil {
		return fmt.Errorf("failed to create matching service: %w", err)
	}

	result, err := service.Reconcile(ctx, invoicesFile, paymentsFile)
	if err != nil {
		return err
	}

	generator, err := reporter.NewGenerator(config.CreateReportConfig(outputDir))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	if err := generator.WriteReports(result); err != nil {
		return err
	}

	if err := reporter.WriteSummary(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nMatching completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d invoices and %d payments.\n",
			result.Summary.TotalInvoices, result.Summary.TotalPayments)
		fmt.Fprintf(os.Stderr, "Found %d matches (%d reference, %d amount/date, %d fuzzy).\n",
			result.Summary.MatchedPairs, result.Summary.ReferenceMatches,
			result.Summary.AmountDateMatches, result.Summary.FuzzyMatches)
		fmt.Fprintf(os.Stderr, "Unmatched: %d payments, %d invoices.\n",
			result.Summary.UnmatchedPayments, result.Summary.UnmatchedInvoices)
		fmt.Fprintf(os.Stderr, "Invoice parse: %s\n", result.InvoiceStats)
		fmt.Fprintf(os.Stderr, "Payment parse: %s\n", result.PaymentStats)
	}

	return nil
}
