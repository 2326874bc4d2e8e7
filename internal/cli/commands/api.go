package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewAPICmd creates the api command with one subcommand per HTTP verb
func NewAPICmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Send raw requests to the API",
		Long: `Send raw requests to the API with the stored session token.

Endpoints are relative to the API URL. Bodies are JSON.

Examples:
  $ msctl api get /students?search=anna
  $ msctl api post /instruments '{"name":"Cello","type":"string","brand":"Yamaha","condition":"good"}'
  $ msctl api delete /instruments/3`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <endpoint>",
		Short: "GET an endpoint and print the JSON response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := env.Client()
			if err != nil {
				return err
			}

			var out any
			if err := apiClient.Get(cmd.Context(), args[0], &out); err != nil {
				return unauthorizedHint(err)
			}
			return printJSON(env, out)
		},
	})

	for _, verb := range []string{"post", "put"} {
		cmd.AddCommand(&cobra.Command{
			Use:   verb + " <endpoint> <json-body>",
			Short: strings.ToUpper(verb) + " a JSON body and print the JSON response",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				var body any
				if err := json.Unmarshal([]byte(args[1]), &body); err != nil {
					return fmt.Errorf("body is not valid JSON: %w", err)
				}

				apiClient, err := env.Client()
				if err != nil {
					return err
				}

				var out any
				if verb == "post" {
					err = apiClient.Post(cmd.Context(), args[0], body, &out)
				} else {
					err = apiClient.Put(cmd.Context(), args[0], body, &out)
				}
				if err != nil {
					return unauthorizedHint(err)
				}
				return printJSON(env, out)
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <endpoint>",
		Short: "DELETE an endpoint and print whether it succeeded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := env.Client()
			if err != nil {
				return err
			}

			ok, err := apiClient.Delete(cmd.Context(), args[0])
			if err != nil {
				return unauthorizedHint(err)
			}
			fmt.Fprintln(env.Out, ok)
			return nil
		},
	})

	return cmd
}

func printJSON(env *Env, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Fprintln(env.Out, string(data))
	return nil
}
