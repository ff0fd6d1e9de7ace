package commands

import (
	"fmt"
	"os"
	"time"

	"dineassist-backend/internal/components/configutil"
	"dineassist-backend/internal/components/restyutil"
	"dineassist-backend/internal/components/telemetry"
	"dineassist-backend/internal/dining"

	"github.com/spf13/cobra"
)

const envPortalUrl = "DINING_PORTAL_URL"

var (
	portalUrl      string
	timeoutSeconds int
	verbose        bool
	outputJson     bool
	captureDir     string
)

var catalog dining.Catalog

var rootCmd = &cobra.Command{
	Use:          "dining-cli",
	Short:        "dining-cli scrapes the dining portal from the command line.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		err := configutil.LoadDotenv(".env", ".env.local")
		if err != nil {
			return err
		}
		if portalUrl == "" {
			portalUrl = configutil.GetEnv(envPortalUrl, "")
		}
		if portalUrl == "" {
			return fmt.Errorf("specify the portal with --portal or %s", envPortalUrl)
		}

		tel, _, err := telemetry.NewAPI(telemetry.LogConfig{Verbose: verbose})
		if err != nil {
			return err
		}
		var capture restyutil.Output
		if captureDir != "" {
			capture, err = restyutil.NewFilesystemOutput(captureDir)
			if err != nil {
				return err
			}
		}
		catalog = newCatalog(portalUrl, time.Duration(timeoutSeconds)*time.Second, capture, tel)
		return nil
	},
}

func newCatalog(baseUrl string, timeout time.Duration, capture restyutil.Output, tel telemetry.API) dining.Catalog {
	opts := dining.PortalConfig{BaseUrl: baseUrl}.Options()
	opts.Timeout = timeout
	opts.Capture = capture
	return dining.NewCatalog(dining.CatalogOptions{Portal: opts}, tel)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&portalUrl, "portal", "", "base url of the dining portal")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 30, "timeout of a single portal request in seconds")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every portal request")
	rootCmd.PersistentFlags().BoolVar(&outputJson, "json", false, "print results as json instead of tables")
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "write every portal request and response to this directory")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
