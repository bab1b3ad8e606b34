/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/klangspor/track-radar/internal/discovery"
	"github.com/klangspor/track-radar/internal/scoring"
)

type SendEmailConfig struct {
	DbPath string
	From   string
	To     string
	Limit  int
	DryRun bool
}

var emailCmd = &cobra.Command{
	Use:   "email <address>",
	Short: "Sends a discovery report email",
	Long: `Emails the current trending and evergreen candidates to the given
address.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		config := SendEmailConfig{
			DbPath: viper.GetString("database"),
			From:   viper.GetString("from"),
			To:     args[0],
			Limit:  limit,
			DryRun: viper.GetBool("dryRun"),
		}
		err := sendEmail(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	emailCmd.Flags().Int("limit", 10, "Candidates per section")
}

func sendEmail(config SendEmailConfig) error {
	subject, body, err := generateEmailContent(config)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	if viper.GetString("sendgrid_api_key") == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("track-radar", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
	_, err = client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	return nil
}

func generateEmailContent(config SendEmailConfig) (subject string, body string, err error) {
	st, err := openStoreAt(config.DbPath)
	if err != nil {
		return "", "", err
	}
	defer st.Close()

	trendingSelector, err := discovery.NewTrendingSelector(st, scoring.Default())
	if err != nil {
		return "", "", err
	}
	evergreenSelector, err := discovery.NewEvergreenSelector(st, scoring.Default())
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	opts := discovery.SelectOptions{Limit: config.Limit}

	trending, err := trendingSelector.SelectTracks(opts, now)
	if err != nil {
		return "", "", fmt.Errorf("selecting trending tracks: %w", err)
	}
	evergreen, err := evergreenSelector.SelectTracks(opts, now)
	if err != nil {
		return "", "", fmt.Errorf("selecting evergreen tracks: %w", err)
	}

	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	out += candidateReport{title: "Trending tracks", candidates: trending}.html()
	out += candidateReport{title: "Evergreen tracks", candidates: evergreen}.html()
	out += `
  </body>
</html>
`

	subject = fmt.Sprintf("Discovery report for %s", now.Format("2006-01-02"))
	return subject, out, nil
}
