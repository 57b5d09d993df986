// Command cargogate-scan runs the gate offline against a single message,
// for rule tuning and incident triage. Text comes from -text or stdin
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"cargogate/internal/core/detector"
	"cargogate/internal/core/filter"
	"cargogate/internal/core/rulepack"
)

type report struct {
	Verdict   filter.Verdict     `json:"verdict"`
	Detection detector.Result    `json:"detection"`
	Logistics detector.Logistics `json:"logistics"`
}

func main() {
	var (
		text     = flag.String("text", "", "message text; reads stdin when empty")
		sender   = flag.String("sender", "0", "sender id")
		username = flag.String("username", "", "sender username")
		fullName = flag.String("name", "", "sender full name")
		group    = flag.String("group", "scan", "group id")
		rules    = flag.String("rules", "", "rule pack json path; embedded pack when empty")
		pretty   = flag.Bool("pretty", true, "indent the json output")
	)
	flag.Parse()

	body := *text
	if body == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal("read stdin: %v", err)
		}
		body = string(b)
	}

	pack, err := loadPack(*rules)
	if err != nil {
		fatal("load rules: %v", err)
	}

	gate := filter.New(pack)
	det := detector.New(pack)

	out := report{
		Verdict: gate.Check(filter.Message{
			Text:     body,
			SenderID: *sender,
			Username: *username,
			FullName: *fullName,
			GroupID:  *group,
		}),
		Detection: det.Analyze(body),
		Logistics: det.ExtractLogistics(body),
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		fatal("encode: %v", err)
	}
}

func loadPack(path string) (*rulepack.Pack, error) {
	if path != "" {
		return rulepack.LoadFile(path)
	}
	return rulepack.Load()
}

func fatal(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
