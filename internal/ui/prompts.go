package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

func readLine() (string, bool) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// PromptYesNo asks a yes/no question and returns the answer. Empty
// input, read errors, and non-interactive mode all yield defaultYes.
func PromptYesNo(question string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	prompt := fmt.Sprintf("%s %s ", question, hint)

	if !IsTerminal() {
		fmt.Printf("%s(non-interactive, defaulting to %t)\n", prompt, defaultYes)
		return defaultYes
	}

	fmt.Print(prompt)
	line, ok := readLine()
	if !ok {
		fmt.Printf("(error reading input, defaulting to %t)\n", defaultYes)
		return defaultYes
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return defaultYes
}
