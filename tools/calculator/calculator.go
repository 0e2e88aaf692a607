// Package calculator implements the arithmetic tool.
//
// Expressions are evaluated with expr-lang/expr over a small numeric environment. All
// arithmetic is float64, so results past the int64 range come out approximate instead
// of wrapping:
//
//	12 * 7            -> 84
//	(3 + 4.5) / 3     -> 2.5
//	2 ^ 10            -> 1024
//	sqrt(2.25) + pi   -> 4.641592653589793
//
// When an expression does not evaluate and a model is configured, the model is asked to
// translate the input (often a word problem) into a single expression, which is then
// evaluated the same way.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/rickchristie/researcher"
	"github.com/tmc/langchaingo/llms"
)

const (
	DefaultName        = "Calculator"
	DefaultDescription = "Useful for when you need to answer questions about math. " +
		"Input should be a single arithmetic expression, such as 12 * 7 or sqrt(2) / 3."
)

// ErrNotANumber is wrapped when an expression evaluates to something other than a number.
var ErrNotANumber = errors.New("result is not a number")

// env holds the functions and constants available to expressions. Builtins of expr such
// as abs, ceil, floor, round, min and max are available as well.
var env = map[string]any{
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"pow":   math.Pow,
	"exp":   math.Exp,
	"log":   math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"mod":   math.Mod,
	"pi":    math.Pi,
	"e":     math.E,
}

// floatArithmetic rewrites integer literals as floats and a % b as mod(a, b), since
// expr only defines % for integers.
type floatArithmetic struct{}

func (floatArithmetic) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IntegerNode:
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	case *ast.BinaryNode:
		if n.Operator == "%" {
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: "mod"},
				Arguments: []ast.Node{n.Left, n.Right},
			})
		}
	}
}

var replacer = strings.NewReplacer("×", "*", "÷", "/", "−", "-", "`", "")

// Evaluate computes an arithmetic expression and formats the result without trailing
// zeros ("84", "2.5").
func Evaluate(expression string) (string, error) {
	cleaned := strings.TrimSpace(replacer.Replace(strings.Trim(expression, ` "'`)))
	if cleaned == "" {
		return "", &researcher.EvaluationError{Expression: expression, Err: errors.New("empty expression")}
	}

	program, err := expr.Compile(cleaned, expr.Env(env), expr.Patch(floatArithmetic{}))
	if err != nil {
		return "", &researcher.EvaluationError{Expression: expression, Err: err}
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return "", &researcher.EvaluationError{Expression: expression, Err: err}
	}

	s, err := formatNumber(out)
	if err != nil {
		return "", &researcher.EvaluationError{Expression: expression, Err: err}
	}
	return s, nil
}

func formatNumber(v any) (string, error) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), nil
	case int32:
		return strconv.FormatInt(int64(n), 10), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case uint:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint64:
		return strconv.FormatUint(n, 10), nil
	case float32:
		return formatFloat(float64(n))
	case float64:
		return formatFloat(n)
	default:
		return "", fmt.Errorf("%w: %v (%T)", ErrNotANumber, v, v)
	}
}

func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrNotANumber, f)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// Tool is the arithmetic tool.
type Tool struct {
	name        string
	description string
	model       researcher.Model
	hooks       researcher.HookDispatcher
}

// New creates the calculator with the default name and description.
func New() *Tool {
	return &Tool{name: DefaultName, description: DefaultDescription}
}

// WithName overrides the name used after "Action:".
func (t *Tool) WithName(name string) *Tool {
	t.name = name
	return t
}

// WithModel enables translation of inputs that are not plain expressions.
func (t *Tool) WithModel(model researcher.Model) *Tool {
	t.model = model
	return t
}

// WithHooks dispatches the events of translation model calls to h.
func (t *Tool) WithHooks(h researcher.HookDispatcher) *Tool {
	t.hooks = h
	return t
}

func (t *Tool) Name() string { return t.name }

func (t *Tool) Description() string { return t.description }

// Call evaluates input, falling back to model translation when one is configured.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	out, err := Evaluate(input)
	if err == nil || t.model == nil {
		return out, err
	}
	return t.translate(ctx, input)
}

const translatePrompt = `Translate a math problem into a single arithmetic expression that can be evaluated.
Use only numbers, + - * / %% ^, parentheses and the functions sqrt, pow, exp, log, sin, cos, tan.

Question: ${Question with math problem.}
` + "```text\n${single line arithmetic expression that solves the problem}\n```" + `
...evaluate the expression...
` + "```output\n${Output of the expression}\n```" + `
Answer: ${Answer}

Begin.

Question: What is 37593 * 67?
` + "```text\n37593 * 67\n```" + `
...evaluate the expression...
` + "```output\n2518731\n```" + `
Answer: 2518731

Question: %s
`

var textBlock = regexp.MustCompile("(?s)```text\\s*(.*?)```")

// translate asks the model for an expression and evaluates it.
func (t *Tool) translate(ctx context.Context, input string) (string, error) {
	execCtx := researcher.NewExecutionContext(ctx, "calculator-translate", nil)
	defer execCtx.Close()
	if t.hooks != nil {
		execCtx.SetHookDispatcher(t.hooks)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf(translatePrompt, input)),
	}
	resp, err := t.model.GenerateContent(
		execCtx,
		messages,
		llms.WithStopWords([]string{"```output"}),
		llms.WithTemperature(0),
	)
	if err != nil {
		return "", &researcher.EvaluationError{
			Expression: input,
			Err:        fmt.Errorf("translate with model: %w", err),
		}
	}

	text := strings.TrimSpace(resp.Text())
	if m := textBlock.FindStringSubmatch(text); m != nil {
		return Evaluate(strings.TrimSpace(m[1]))
	}
	if _, answer, ok := strings.Cut(text, "Answer:"); ok {
		return strings.TrimSpace(answer), nil
	}
	return "", &researcher.EvaluationError{
		Expression: input,
		Err:        fmt.Errorf("unknown format from model: %q", text),
	}
}

var _ researcher.Tool = (*Tool)(nil)
