package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/pmezard/go-difflib/difflib"
)

const usage = "list <pattern>, run <pattern>, update <pattern>, exit"

var commandRegexp = regexp.MustCompile(`^(list|run|update)(?: ([^ ]+))?$`)

func handleError(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

func main() {
	if err := os.Chdir("tests/scenarios"); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("tests/scenarios directory does not exist, please run the tester in the root of the project")
			os.Exit(1)
		}
		handleError(err)
	}
	if len(os.Args) > 1 && os.Args[1] == "ci" {
		ok := true
		for _, testCase := range loadTestCases() {
			fmt.Println(testCase)
			runTest(testCase)
			if diffTest(testCase, true) {
				ok = false
			}
			cleanupTest(testCase)
		}
		if !ok {
			os.Exit(1)
		}
		return
	}
	fmt.Println(usage)
	prompt.New(
		executeCommand,
		completer,
		prompt.OptionPrefix("tester> "),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && in == "exit"
		}),
	).Run()
}

func completer(d prompt.Document) []prompt.Suggest {
	before := d.TextBeforeCursor()
	if i := strings.IndexByte(before, ' '); i != -1 {
		var suggestions []prompt.Suggest
		for _, testCase := range loadTestCases() {
			suggestions = append(suggestions, prompt.Suggest{Text: testCase})
		}
		return prompt.FilterHasPrefix(suggestions, before[i+1:], false)
	}
	return prompt.FilterHasPrefix([]prompt.Suggest{
		{Text: "list", Description: "list matching scenarios"},
		{Text: "run", Description: "run matching scenarios and show diffs"},
		{Text: "update", Description: "run matching scenarios and accept their output"},
		{Text: "exit"},
	}, before, true)
}

// matchingTestCases returns the test cases matching a pattern in which *
// stands for any run of non-space characters.
func matchingTestCases(pattern string) []string {
	re := regexp.MustCompile("^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), "\\*", "[^ ]*") + "$")
	var out []string
	for _, testCase := range loadTestCases() {
		if re.MatchString(testCase) {
			out = append(out, testCase)
		}
	}
	return out
}

func executeCommand(command string) {
	command = strings.TrimSpace(command)
	if command == "exit" {
		fmt.Println("Exiting.")
		return
	}
	match := commandRegexp.FindStringSubmatch(command)
	if match == nil {
		fmt.Println("Unknown command.")
		fmt.Println(usage)
		return
	}
	pattern := match[2]
	if pattern == "" {
		pattern = "*"
	}

	for _, testCase := range matchingTestCases(pattern) {
		fmt.Println(testCase)
		switch match[1] {
		case "list":
			continue
		case "run":
			runTest(testCase)
			if diffTest(testCase, true) {
				fmt.Println("Diff found, temporary output files left in place.")
			} else {
				cleanupTest(testCase)
			}
		case "update":
			runTest(testCase)
			if diffTest(testCase, false) {
				fmt.Println("Diff found, updating...")
				updateTest(testCase)
			}
			cleanupTest(testCase)
		}
	}
}

// runTest runs the command line in the .in file with a fresh home directory,
// so that no user config or logs leak into the scenario.
func runTest(testCase string) {
	body, err := os.ReadFile(testCase + ".in")
	handleError(err)
	testCommand := strings.TrimSpace(string(body))

	home, err := os.MkdirTemp("", "ndarray-tester-")
	handleError(err)
	defer os.RemoveAll(home)

	cmd := exec.Command("bash", "-c", testCommand+fmt.Sprintf(" > %s 2> %s", filepath.Base(testCase)+".tmpout", filepath.Base(testCase)+".tmperr"))
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Dir = filepath.Dir(testCase)
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			handleError(err)
		}
	}
}

func diffTest(testCase string, print bool) bool {
	diff := false
	for _, stream := range []struct {
		name     string
		expected string
		actual   string
	}{
		{name: "Standard Output", expected: ".out", actual: ".tmpout"},
		{name: "Standard Error", expected: ".err", actual: ".tmperr"},
	} {
		out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(readFileOrEmpty(testCase + stream.expected)),
			B:        difflib.SplitLines(readFileOrEmpty(testCase + stream.actual)),
			FromFile: "Expected " + stream.name,
			ToFile:   "Actual " + stream.name,
			Context:  2,
		})
		handleError(err)
		if out != "" {
			if print {
				fmt.Println(out)
			}
			diff = true
		}
	}
	return diff
}

func updateTest(testCase string) {
	handleError(os.Rename(testCase+".tmpout", testCase+".out"))
	handleError(os.Rename(testCase+".tmperr", testCase+".err"))
}

func cleanupTest(testCase string) {
	handleError(os.RemoveAll(testCase + ".tmpout"))
	handleError(os.RemoveAll(testCase + ".tmperr"))
}

func readFileOrEmpty(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		handleError(err)
	}
	return string(data)
}

func loadTestCases() []string {
	var testCases []string
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if filepath.Ext(path) != ".in" {
			return nil
		}
		testCases = append(testCases, strings.TrimSuffix(path, ".in"))
		return nil
	})
	handleError(err)

	return testCases
}
