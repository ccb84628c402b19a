package commands

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/groqchat/internal/config"
)

// newPersonaCmd creates the persona command tree
func newPersonaCmd(deps *Dependencies) *cobra.Command {
	personaCmd := &cobra.Command{
		Use:   "persona",
		Short: "Manage chat personas",
		Long:  `View and manage personas (system prompts) for chat sessions.`,
	}

	personaCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available personas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonaList(deps)
		},
	})

	personaCmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show persona details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonaShow(deps, args[0])
		},
	})

	var add personaAddFlags
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new persona",
		Long: `Add a new persona. Without --prompt, the description and the system
prompt are read from stdin; the prompt ends at the first empty line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			add.temperatureSet = cmd.Flags().Changed("temperature")
			return runPersonaAdd(deps, args[0], add)
		},
	}
	addCmd.Flags().StringVarP(&add.description, "description", "d", "", "Short description")
	addCmd.Flags().StringVar(&add.prompt, "prompt", "", "System prompt")
	addCmd.Flags().StringVarP(&add.model, "model", "m", "", "Preferred model")
	addCmd.Flags().Float64Var(&add.temperature, "temperature", 0, "Preferred temperature")
	personaCmd.AddCommand(addCmd)

	personaCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DeletePersona(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "Persona '%s' deleted.\n", args[0])
			return nil
		},
	})

	personaCmd.AddCommand(&cobra.Command{
		Use:   "default <name>",
		Short: "Set default persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetDefaultPersona(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "Default persona set to '%s'.\n", args[0])
			return nil
		},
	})

	return personaCmd
}

type personaAddFlags struct {
	description    string
	prompt         string
	model          string
	temperature    float64
	temperatureSet bool
}

func runPersonaList(deps *Dependencies) error {
	pc, err := config.LoadPersonas()
	if err != nil {
		return fmt.Errorf("failed to load personas: %w", err)
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tDESCRIPTION\tDEFAULT")
	_, _ = fmt.Fprintln(w, "----\t-----------\t-------")

	for _, p := range pc.Personas {
		isDefault := ""
		if p.Name == pc.DefaultPersona {
			isDefault = "✓"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Description, isDefault)
	}

	return w.Flush()
}

func runPersonaShow(deps *Dependencies, name string) error {
	persona, err := config.GetPersona(name)
	if err != nil {
		return err
	}

	out := deps.Stdout
	fmt.Fprintf(out, "Name: %s\n", persona.Name)
	fmt.Fprintf(out, "Description: %s\n", persona.Description)
	if persona.Model != "" {
		fmt.Fprintf(out, "Preferred Model: %s\n", persona.Model)
	}
	if persona.Temperature != nil {
		fmt.Fprintf(out, "Preferred Temperature: %g\n", *persona.Temperature)
	}
	fmt.Fprintf(out, "\nSystem Prompt:\n%s\n", persona.SystemPrompt)

	return nil
}

func runPersonaAdd(deps *Dependencies, name string, f personaAddFlags) error {
	if _, err := config.GetPersona(name); err == nil {
		return fmt.Errorf("persona '%s' already exists", name)
	}

	persona := config.Persona{
		Name:         name,
		Description:  f.description,
		SystemPrompt: f.prompt,
		Model:        f.model,
	}
	if f.temperatureSet {
		t := f.temperature
		persona.Temperature = &t
	}

	if persona.SystemPrompt == "" {
		desc, prompt, err := readPersonaInput(deps, persona.Description == "")
		if err != nil {
			return err
		}
		if persona.Description == "" {
			persona.Description = desc
		}
		persona.SystemPrompt = prompt
	}

	if strings.TrimSpace(persona.SystemPrompt) == "" {
		return fmt.Errorf("system prompt cannot be empty")
	}

	if err := config.AddPersona(persona); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Persona '%s' created.\n", name)
	return nil
}

// readPersonaInput reads an optional description line, then prompt lines
// until an empty line or EOF
func readPersonaInput(deps *Dependencies, askDescription bool) (string, string, error) {
	reader := bufio.NewReader(deps.Stdin)

	var desc string
	if askDescription {
		fmt.Fprint(deps.Stderr, "Enter description: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("failed to read description: %w", err)
		}
		desc = strings.TrimSpace(line)
	}

	fmt.Fprintln(deps.Stderr, "Enter system prompt (end with an empty line):")
	var promptLines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\n\r")
		if line == "" {
			break
		}
		promptLines = append(promptLines, line)
		if err != nil {
			break
		}
	}

	return desc, strings.Join(promptLines, "\n"), nil
}
