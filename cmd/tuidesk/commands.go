package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
	"github.com/Gaurav-Gosain/tuidesk/internal/tools"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableBorder())
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableKey())
	noteStyle    = lipgloss.NewStyle().Foreground(theme.CLITableDim())
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// newTable is the rounded table every listing uses.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableBorder())).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func configCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tuidesk configuration",
		Long:  `Manage the tuidesk configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the tuidesk configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order. A running desktop picks up
the saved changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	var force bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the tuidesk configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults(force)
		},
	}
	configResetCmd.Flags().BoolVarP(&force, "yes", "y", false, "Do not ask for confirmation")

	configValidateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file for errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd, configValidateCmd)
	return configCmd
}

// printConfigPath prints the config file path
func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// findEditor picks $EDITOR, $VISUAL or the first common editor installed.
func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	for _, e := range []string{"vim", "vi", "nano", "emacs"} {
		if _, err := exec.LookPath(e); err == nil {
			return e
		}
	}
	return ""
}

// editConfigFile opens the config file in $EDITOR
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := findEditor()
	if editor == "" {
		return errors.New("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return validateConfig()
}

// resetConfigToDefaults resets the configuration file to default settings
func resetConfigToDefaults(force bool) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("refusing to overwrite the config without a terminal; pass --yes")
		}
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.SaveFile(configPath, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: tuidesk config edit")
	return nil
}

func validateConfig() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	if _, err := config.LoadFile(configPath); err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}
	fmt.Println(noteStyle.Render("Configuration OK: " + configPath))
	return nil
}

func keybindsCommand() *cobra.Command {
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings()
		},
	}

	keybindsCustomCmd := &cobra.Command{
		Use:   "list-custom",
		Short: "List customized keybindings",
		Long: `Display only keybindings that differ from defaults

Shows a comparison of default and custom keybindings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCustomKeybindings()
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd, keybindsCustomCmd)
	return keybindsCmd
}

// loadConfigOrDefaults warns on stderr and falls back to the defaults.
func loadConfigOrDefaults() *config.UserConfig {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		return config.DefaultConfig()
	}
	return userConfig
}

// listKeybindings prints all configured keybindings in a pretty table
func listKeybindings() error {
	registry := config.NewKeybindRegistry(loadConfigOrDefaults())

	fmt.Println()
	fmt.Println(titleStyle.Render("tuidesk Keybindings"))
	fmt.Println()

	for _, section := range config.GetKeybindings(registry) {
		t := newTable("Keys", "Action")
		for _, b := range section.Bindings {
			t.Row(b.Key, b.Description)
		}
		fmt.Println(sectionStyle.Render(section.Title))
		fmt.Println(t.Render())
		fmt.Println()
	}
	return nil
}

// Customization represents a customized keybinding
type Customization struct {
	Action      string
	DefaultKeys string
	CustomKeys  string
}

// findCustomizations finds all keybindings that differ from defaults,
// sorted by action.
func findCustomizations(userCfg, defaultCfg *config.UserConfig) []Customization {
	var customizations []Customization
	userSections := userCfg.Keybindings.Sections()
	for i, defaultSection := range defaultCfg.Keybindings.Sections() {
		for action, defaultKeys := range defaultSection {
			userKeys, exists := userSections[i][action]
			if !exists || slices.Equal(userKeys, defaultKeys) {
				continue
			}
			customizations = append(customizations, Customization{
				Action:      formatActionName(action),
				DefaultKeys: strings.Join(defaultKeys, ", "),
				CustomKeys:  strings.Join(userKeys, ", "),
			})
		}
	}
	slices.SortFunc(customizations, func(a, b Customization) int {
		return strings.Compare(a.Action, b.Action)
	})
	return customizations
}

// formatActionName formats an action name for display
func formatActionName(action string) string {
	if desc, ok := config.ActionDescriptions[action]; ok {
		return desc
	}
	return strings.ReplaceAll(action, "_", " ")
}

// listCustomKeybindings shows only the keybindings that differ from defaults
func listCustomKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	customizations := findCustomizations(userConfig, config.DefaultConfig())
	if len(customizations) == 0 {
		fmt.Println(noteStyle.Render("No custom keybindings configured. All keybindings are using defaults."))
		fmt.Println()
		fmt.Println("Run 'tuidesk keybinds list' to see all keybindings.")
		return nil
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("Custom Keybindings"))
	fmt.Println()

	t := newTable("Action", "Default", "Custom")
	for _, c := range customizations {
		t.Row(c.Action, c.DefaultKeys, c.CustomKeys)
	}
	fmt.Println(t.Render())
	fmt.Println()
	fmt.Println(sectionStyle.Render(fmt.Sprintf("Found %d customized keybinding(s)", len(customizations))))
	fmt.Println()
	return nil
}

func toolsCommand() *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect the tool catalog",
	}
	toolsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List the tools that can be opened",
		Long:  `List every tool with its id (for --open and SSH commands), menu and key binding`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := config.NewKeybindRegistry(loadConfigOrDefaults())
			t := newTable("ID", "Tool", "Menu", "Keys")
			for _, tool := range tools.Catalog() {
				t.Row(tool.ID, tool.Label(asciiOnly), tool.Category.Title(), registry.GetKeysForDisplay("launch_"+tool.ID))
			}
			fmt.Println(t.Render())
			return nil
		},
	}
	toolsCmd.AddCommand(toolsListCmd)
	return toolsCmd
}
