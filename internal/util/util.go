package util

import (
	"bufio"
	"fmt"
	"html"
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"
)

var (
	IsDebug bool

	// Style definitions for help and errors
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			Underline(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#45B7D1")).
			Italic(true)

	exampleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	debugErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF4757")).
			Padding(1, 2)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA726")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF69B4")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

// SetDebugMode sets the debug mode
func SetDebugMode(debug bool) {
	IsDebug = debug
}

// ErrorHandler returns a stylized error message
func ErrorHandler(err error) string {
	if IsDebug {
		errorMessage := errorStyle.Render("DEBUG ERROR")
		styledError := debugErrorStyle.Render(fmt.Sprintf("%+v", err))
		return fmt.Sprintf("%s\n%s", errorMessage, styledError)
	}

	styledError := errorStyle.Render(fmt.Sprintf("✗ %v", err))
	styledHint := warningStyle.Render("run the program with -debug to see details")
	return fmt.Sprintf("%s\n%s", styledError, styledHint)
}

// Helper prints the help message
func Helper() {
	title := titleStyle.Render("Area51 - Media Listing Resolver")

	usage := helpStyle.Render("Usage:")
	usageExamples := []string{
		"  area51 " + optionStyle.Render("-list-categories -site <name>"),
		"  area51 " + optionStyle.Render("-site <name> -category <url>"),
		"  area51 " + optionStyle.Render("[options]") + " " + exampleStyle.Render("<video page url>"),
	}

	options := helpStyle.Render("Options:")
	optionsList := []string{
		"  " + optionStyle.Render("-site") + "             site provider (xnxx, xvideos, xhamster)",
		"  " + optionStyle.Render("-list-categories") + "  list categories for the selected site",
		"  " + optionStyle.Render("-category") + "         category URL to list videos from",
		"  " + optionStyle.Render("-quality") + "          preferred quality (e.g. 720p, 1080p, best)",
		"  " + optionStyle.Render("-av1") + "              prefer AV1 sources on quality ties",
		"  " + optionStyle.Render("-resolve") + "          prompt for a video page URL and resolve it",
		"  " + optionStyle.Render("-debug") + "            enable debug mode with detailed information",
		"  " + optionStyle.Render("-help, -h") + "         show this help message",
		"  " + optionStyle.Render("-version") + "          show version information",
	}

	fmt.Println(title)
	fmt.Println()
	fmt.Println(usage)
	for _, line := range usageExamples {
		fmt.Println(line)
	}
	fmt.Println()
	fmt.Println(options)
	for _, line := range optionsList {
		fmt.Println(line)
	}
	fmt.Println()
}

// GetPageURL prompts the user for a video page URL when none was given on
// the command line.
func GetPageURL() (string, error) {
	if runtime.GOOS == "windows" {
		return getSimpleInput("Enter video page URL")
	}

	styledLabel := promptStyle.Render("Enter video page URL")
	prompt := promptui.Prompt{
		Label: styledLabel,
	}

	pageURL, err := prompt.Run()
	if err != nil {
		return "", err
	}
	pageURL = strings.TrimSpace(pageURL)
	if !strings.HasPrefix(pageURL, "http") {
		return "", fmt.Errorf("expected an absolute http(s) URL, got: %v", pageURL)
	}

	fmt.Println(successStyle.Render("✓ Page URL received"))
	return pageURL, nil
}

// getSimpleInput provides a fallback input method for Windows
func getSimpleInput(label string) (string, error) {
	fmt.Print(promptStyle.Render(label + ": "))

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "http") {
		return "", fmt.Errorf("expected an absolute http(s) URL, got: %v", line)
	}
	return line, nil
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	controlRe    = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// CleanText normalizes scraped text: HTML entities decoded, control
// characters stripped, runs of whitespace collapsed.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = controlRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SanitizeTitle cleans a scraped video or category title for display and
// storage. Backslashes and stray quotes from inline-JS sources are removed.
func SanitizeTitle(s string) string {
	s = CleanText(s)
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\`, "")
	return strings.TrimSpace(strings.Trim(s, `"`))
}
