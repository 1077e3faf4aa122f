package snake

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/pflag"
)

// PromptFlagString asks for a string or int flag value and returns the
// flag argument. An empty answer keeps the default.
func PromptFlagString(f *pflag.Flag) (string, error) {
	validate := func(input string) error {
		if input == "" {
			if f.DefValue == "" {
				return errors.New("empty")
			}
			return nil
		}
		if f.Value.Type() == "int" {
			if _, err := strconv.Atoi(input); err != nil {
				return errors.New("not a number")
			}
		}
		return nil
	}

	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} : ",
		Valid:   "{{ . | green }} : ",
		Invalid: "{{ . | red }} : ",
		Success: "{{ . | bold }} : ",
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf(`%s ["%s"]`, asFlags(f), f.DefValue),
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
	return fmt.Sprintf(`--%s=%s`, f.Name, result), nil
}
