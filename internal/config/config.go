package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	NotebookPath  string   `mapstructure:"path"`
	Output        string   `mapstructure:"output"`
	Format        string   `mapstructure:"format"`
	Interpreter   string   `mapstructure:"interpreter"`
	Editor        string   `mapstructure:"editor"`
	Extensions    []string `mapstructure:"extensions"`
	Highlight     bool     `mapstructure:"highlight"`
	Watch         bool     `mapstructure:"watch"`
	LogFile       string   `mapstructure:"log_file"`
	ColorCode     string   `mapstructure:"color_code"`
	ColorMarkdown string   `mapstructure:"color_markdown"`
	ColorPrompt   string   `mapstructure:"color_prompt"`
	ColorBorder   string   `mapstructure:"color_border"`
	ColorDim      string   `mapstructure:"color_dim"`
	ColorCursor   string   `mapstructure:"color_cursor"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	setDefaults()

	viper.SetConfigName("cellmd")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "cellmd"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CELLMD")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

func setDefaults() {
	viper.SetDefault("path", ".")
	viper.SetDefault("output", "print")
	viper.SetDefault("format", "text")
	viper.SetDefault("interpreter", "python3")
	viper.SetDefault("editor", os.Getenv("EDITOR"))
	viper.SetDefault("extensions", []string{".py"})
	viper.SetDefault("highlight", true)
	viper.SetDefault("watch", true)
	viper.SetDefault("log_file", "")
	viper.SetDefault("color_code", "34")     // Blue
	viper.SetDefault("color_markdown", "35") // Magenta
	viper.SetDefault("color_prompt", "32")   // Green
	viper.SetDefault("color_border", "240")
	viper.SetDefault("color_dim", "241")
	viper.SetDefault("color_cursor", "212")
}

// GetPath returns the notebook path with tilde expansion
func GetPath() string {
	return expandTilde(viper.GetString("path"))
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetOutput returns the output mode
func GetOutput() string {
	return viper.GetString("output")
}

// GetFormat returns the CLI output format (text or json)
func GetFormat() string {
	return viper.GetString("format")
}

// GetInterpreter returns the command code cells are piped into
func GetInterpreter() string {
	return viper.GetString("interpreter")
}

// GetEditor returns the editor used to open notebooks
func GetEditor() string {
	return viper.GetString("editor")
}

// GetExtensions returns the notebook file extensions scanned in directories
func GetExtensions() []string {
	return viper.GetStringSlice("extensions")
}

// GetHighlight returns whether the cell under the cursor is highlighted
func GetHighlight() bool {
	return viper.GetBool("highlight")
}

// GetWatch returns whether open notebooks reload when the file changes
func GetWatch() bool {
	return viper.GetBool("watch")
}

// GetLogFile returns the debug log path, empty when logging is off
func GetLogFile() string {
	return expandTilde(viper.GetString("log_file"))
}

// GetColorCode returns the color for code cell highlights
func GetColorCode() string {
	return viper.GetString("color_code")
}

// GetColorMarkdown returns the color for markdown cell highlights
func GetColorMarkdown() string {
	return viper.GetString("color_markdown")
}

// GetColorPrompt returns the color for marker lines
func GetColorPrompt() string {
	return viper.GetString("color_prompt")
}

// GetColorBorder returns the color for dividers
func GetColorBorder() string {
	return viper.GetString("color_border")
}

// GetColorDim returns the color for secondary text
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// GetColorCursor returns the color for the cursor
func GetColorCursor() string {
	return viper.GetString("color_cursor")
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// SetFormat sets the CLI output format at runtime
func SetFormat(format string) {
	viper.Set("format", format)
	C.Format = format
}

// SetPath sets path at runtime
func SetPath(path string) {
	viper.Set("path", path)
	C.NotebookPath = path
}

// SetWatch toggles file watching at runtime
func SetWatch(watch bool) {
	viper.Set("watch", watch)
	C.Watch = watch
}
