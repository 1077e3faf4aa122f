package snake

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/pflag"
)

func asFlags(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("--%s, -%s", f.Name, f.Shorthand)
	}
	return fmt.Sprintf("--%s", f.Name)
}

// PromptFlagBool asks for a yes/no answer and returns the flag argument.
func PromptFlagBool(f *pflag.Flag) (string, error) {
	validInput := "true/false"
	if defTrue, err := ParseBool(f.DefValue); err == nil {
		if defTrue {
			validInput = "[true]/false"
		} else {
			validInput = "true/[false]"
		}
	}

	validate := func(input string) error {
		if input == "" {
			return nil
		}
		_, err := ParseBool(input)
		return err
	}

	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} : ",
		Valid:   "{{ . | green }} : ",
		Invalid: "{{ . | red }} : ",
		Success: "{{ . | bold }} : ",
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s %s", asFlags(f), validInput),
		Templates: templates,
		Validate:  validate,
	}

	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if result == "" {
		result = f.DefValue
	}
	r, _ := ParseBool(result)
	return fmt.Sprintf(`--%s=%t`, f.Name, r), nil
}

// ParseBool is strconv.ParseBool with the addition of yes/no and oui/non.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes", "oui", "Oui", "OUI":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No", "non", "Non", "NON":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
