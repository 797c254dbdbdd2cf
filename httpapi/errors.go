package httpapi

import "fmt"

type unknownScenarioError string

func (e unknownScenarioError) Error() string {
	return fmt.Sprintf("unknown scenario %q", string(e))
}
