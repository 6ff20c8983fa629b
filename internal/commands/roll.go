package commands

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/keshon/commandframe/pkg/cmd"
)

const rollColor = 0x00cc99

var (
	tokenRegex = regexp.MustCompile(`(?i)(\d*d\d+|\d+|[+\-*/])`)
	diceRegex  = regexp.MustCompile(`(?i)^(\d*)d(\d+)$`)
	validOps   = map[string]bool{"+": true, "-": true, "*": true, "/": true}
)

type term struct {
	value int
	desc  string
	op    string
}

// Roll evaluates dice formulas like `2d6+1d4*2-3`. Results carry a Reroll
// button that runs the same formula again.
type Roll struct {
	// Intn returns a value in [0, n). Defaults to math/rand.
	Intn func(n int) int
}

func (r *Roll) Help() string { return "Roll dice with crazy formulas like `2d6+1d4*2`" }

func (r *Roll) Arguments() []cmd.Template {
	return []cmd.Template{
		cmd.NewOption(cmd.OptionString, "formula", "Supports `2d6+1d4*2-3` and similar math", true),
	}
}

func (r *Roll) Run(ctx context.Context, e cmd.Event) error {
	var parts []string
	for _, a := range e.Arguments() {
		parts = append(parts, a.String())
	}
	return r.roll(e, cmd.AliasFrom(ctx), strings.Join(parts, ""))
}

// Component handles the Reroll button.
func (r *Roll) Component(ctx context.Context, e cmd.ComponentEvent) error {
	return r.roll(e, cmd.AliasFrom(ctx), strings.Join(cmd.ComponentPayload(e.CustomID()), ""))
}

type replier interface {
	Reply(cmd.Reply) error
}

func (r *Roll) roll(e replier, alias, formula string) error {
	formula = strings.ReplaceAll(formula, " ", "")
	total, pretty, err := evaluate(formula, r.intn)
	if err != nil {
		return e.Reply(cmd.Text(err.Error()))
	}

	reply := cmd.Rich(cmd.RichContent{
		Title:       "🎲 Dice Roll",
		Description: fmt.Sprintf("**User Input**:\t`%s`\n**Calculation**:\t%s\n**Result**:\t**%d**", formula, pretty, total),
		Color:       rollColor,
	})
	// long formulas do not fit in a custom ID; they roll without the button
	if id := cmd.CustomID(alias, formula); alias != "" && len(id) <= cmd.MaxCustomIDLength {
		reply = reply.WithButtons(cmd.Button{
			Label:    "Reroll",
			CustomID: id,
			Style:    cmd.ButtonSecondary,
		})
	}
	return e.Reply(reply)
}

func (r *Roll) intn(n int) int {
	if r.Intn != nil {
		return r.Intn(n)
	}
	return rand.Intn(n)
}

// evaluate computes formula with * and / binding tighter than + and -.
func evaluate(formula string, intn func(int) int) (int, string, error) {
	tokens := tokenRegex.FindAllString(formula, -1)
	if len(tokens) == 0 {
		return 0, "", errors.New("Can't parse your formula. Try something like `2d6+1d4*2-3`")
	}

	var terms []term
	currentOp := "+"
	for _, token := range tokens {
		if validOps[token] {
			currentOp = token
			continue
		}
		val, desc, err := evaluateToken(token, intn)
		if err != nil {
			return 0, "", fmt.Errorf("Failed to evaluate `%s`: %v", token, err)
		}
		terms = append(terms, term{value: val, desc: desc, op: currentOp})
	}

	// * and / first
	var merged []term
	for _, t := range terms {
		if t.op != "*" && t.op != "/" {
			merged = append(merged, t)
			continue
		}
		if len(merged) == 0 {
			return 0, "", errors.New("Syntax error: operator without left operand")
		}
		prev := merged[len(merged)-1]
		merged = merged[:len(merged)-1]

		value := prev.value * t.value
		if t.op == "/" {
			if t.value == 0 {
				return 0, "", errors.New("Division by zero is forbidden. Even in games.")
			}
			value = prev.value / t.value
		}
		merged = append(merged, term{
			value: value,
			desc:  fmt.Sprintf("%s %s %s", prev.desc, t.op, t.desc),
			op:    prev.op,
		})
	}

	// + and -
	total := 0
	var details []string
	for _, t := range merged {
		if len(details) > 0 {
			details = append(details, fmt.Sprintf(" %s ", t.op))
		}
		details = append(details, t.desc)
		if t.op == "-" {
			total -= t.value
		} else {
			total += t.value
		}
	}
	return total, strings.Join(details, ""), nil
}

func evaluateToken(token string, intn func(int) int) (int, string, error) {
	if m := diceRegex.FindStringSubmatch(token); m != nil {
		count := 1
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, "", errors.New("invalid dice count")
			}
			count = n
		}

		sides, err := strconv.Atoi(m[2])
		if err != nil || sides < 2 {
			return 0, "", errors.New("invalid dice sides")
		}
		if count > 100 || sides > 1000 {
			return 0, "", errors.New("too big. max 100 dice, 1000 sides")
		}

		var sum int
		var rolls []string
		for i := 0; i < count; i++ {
			r := intn(sides) + 1
			sum += r
			rolls = append(rolls, strconv.Itoa(r))
		}
		return sum, fmt.Sprintf("`%s` [%s]", token, strings.Join(rolls, ", ")), nil
	}

	// plain number
	num, err := strconv.Atoi(token)
	if err != nil {
		return 0, "", errors.New("invalid number")
	}
	return num, strconv.Itoa(num), nil
}
