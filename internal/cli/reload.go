package cli

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

// reloadCmd represents the reload command
var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the configuration in the running service",
	Long: `Sends a request to the running action filter service to reload its
configuration from disk. The service keeps its current configuration when
the new file fails validation, so a bad edit cannot take a running service
down.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Requesting the service to reload configuration...")

		// The config file tells us where the service listens and whether a
		// bearer token is required.
		cfg, _, err := loadConfigOrDefault(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		reloadURL := daemonBaseURL(cfg) + "/actionfilter/reload"

		req, err := http.NewRequest(http.MethodPost, reloadURL, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building reload request: %v\n", err)
			os.Exit(1)
		}
		if cfg.Application.AuthToken != "" {
			req.Header.Set("Authorization", "Bearer "+cfg.Application.AuthToken)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error sending reload request to %s: %v\n", reloadURL, err)
			fmt.Fprintln(os.Stderr, "Is the action filter service running?")
			os.Exit(1)
		}
		defer resp.Body.Close()

		// Check response status
		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
			fmt.Println("Reload request accepted by the service.")
			bodyBytes, errRead := io.ReadAll(resp.Body)
			if errRead == nil && len(bodyBytes) > 0 {
				fmt.Printf("Service response: %s\n", string(bodyBytes))
			}
		} else {
			// Try to read body for more info
			limitReader := http.MaxBytesReader(nil, resp.Body, 1024) // Limit response size
			bodyBytes, errRead := io.ReadAll(limitReader)

			fmt.Fprintf(os.Stderr, "Error: Service returned status %s\n", resp.Status)
			if errRead == nil && len(bodyBytes) > 0 {
				fmt.Fprintf(os.Stderr, "Response: %s\n", string(bodyBytes))
			} else if errRead != nil {
				fmt.Fprintf(os.Stderr, "(Could not read response body: %v)\n", errRead)
			}
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reloadCmd)
}

// daemonBaseURL derives a client-side base URL from the configured listen
// address. Wildcard binds are reached via localhost.
func daemonBaseURL(cfg *models.Config) string {
	addr := cfg.Application.ListenAddress
	if addr == "" {
		addr = ":8080"
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
