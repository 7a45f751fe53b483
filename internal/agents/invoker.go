// ABOUTME: Invoker renders a role prompt, calls the model, and validates the reply
// ABOUTME: An invalid reply gets exactly one repair call before failing with MODEL_ERROR
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/harper/tweak-my-meal/internal/apperr"
	"github.com/harper/tweak-my-meal/internal/llm"
	"github.com/harper/tweak-my-meal/internal/schema"
	"github.com/invopop/jsonschema"
	"go.uber.org/zap"
)

// Invoker calls agents through a Completer
type Invoker struct {
	completer   llm.Completer
	catalog     *Catalog
	visionModel string
	logger      *zap.Logger
}

// Option configures an Invoker
type Option func(*Invoker)

// WithVisionModel routes vision calls to a specific model
func WithVisionModel(model string) Option {
	return func(i *Invoker) { i.visionModel = model }
}

// WithCatalog replaces the embedded prompt catalog
func WithCatalog(c *Catalog) Option {
	return func(i *Invoker) { i.catalog = c }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(i *Invoker) { i.logger = l }
}

// NewInvoker creates an Invoker using the embedded prompts unless overridden
func NewInvoker(completer llm.Completer, opts ...Option) (*Invoker, error) {
	inv := &Invoker{completer: completer, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(inv)
	}
	if inv.catalog == nil {
		c, err := DefaultCatalog()
		if err != nil {
			return nil, err
		}
		inv.catalog = c
	}
	inv.logger = inv.logger.Named("agents")
	return inv, nil
}

// Call is one agent invocation
type Call struct {
	Role    Role
	Context string
	Payload any
	Images  []llm.Image
}

// Invoke runs call and decodes the reply into T. A reply failing validation is
// retried once with the error attached; a second failure is a MODEL_ERROR.
func Invoke[T any](ctx context.Context, inv *Invoker, call Call) (T, error) {
	var zero T

	prompt, err := inv.catalog.Prompt(call.Role)
	if err != nil {
		return zero, apperr.Internal(err, "agent %s is not configured", call.Role)
	}
	user, err := renderPrompt[T](call)
	if err != nil {
		return zero, apperr.Internal(err, "rendering %s prompt", call.Role)
	}

	req := llm.CompletionRequest{
		System:      prompt.System,
		Prompt:      user,
		Images:      call.Images,
		Temperature: prompt.Temperature,
	}
	if call.Role == RoleVision {
		req.Model = inv.visionModel
	}

	raw, err := inv.completer.Complete(ctx, req)
	if err != nil {
		return zero, apperr.Model(err, "%s agent call failed", call.Role)
	}
	out, firstErr := parse[T](raw)
	if firstErr == nil {
		return out, nil
	}

	inv.logger.Warn("agent reply failed validation, repairing",
		zap.String("role", string(call.Role)),
		zap.Error(firstErr))

	req.Prompt = repairPrompt(user, inv.catalog.Repair, raw, firstErr)
	raw, err = inv.completer.Complete(ctx, req)
	if err != nil {
		return zero, apperr.Model(err, "%s agent repair call failed", call.Role)
	}
	out, secondErr := parse[T](raw)
	if secondErr == nil {
		return out, nil
	}

	inv.logger.Error("agent reply invalid after repair",
		zap.String("role", string(call.Role)),
		zap.Error(secondErr))

	modelErr := apperr.Model(secondErr, "%s agent returned invalid output", call.Role)
	var verr *schema.ValidationError
	if errors.As(secondErr, &verr) && verr.Field != "" {
		modelErr = modelErr.WithDetail("field", verr.Field)
	}
	return zero, modelErr
}

func parse[T any](raw string) (T, error) {
	return schema.Validate[T]([]byte(cleanJSON(raw)))
}

func renderPrompt[T any](call Call) (string, error) {
	var b strings.Builder

	if call.Context != "" {
		b.WriteString("CONTEXT:\n")
		b.WriteString(call.Context)
		b.WriteString("\n\n")
	}

	if call.Payload != nil {
		payload, err := json.MarshalIndent(call.Payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding payload: %w", err)
		}
		b.WriteString("INPUT:\n")
		b.Write(payload)
		b.WriteString("\n\n")
	}

	shape, err := schemaFor[T]()
	if err != nil {
		return "", err
	}
	b.WriteString("Respond with a single JSON object matching this JSON schema:\n")
	b.WriteString(shape)
	return b.String(), nil
}

func repairPrompt(original, instruction, badOutput string, verr error) string {
	var b strings.Builder
	b.WriteString(original)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(instruction))
	b.WriteString("\n\nPREVIOUS OUTPUT:\n")
	b.WriteString(badOutput)
	b.WriteString("\n\nVALIDATION ERROR:\n")
	b.WriteString(verr.Error())
	return b.String()
}

// cleanJSON strips markdown fences and any prose around the outermost object
func cleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "{") {
		return s
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

var schemaCache sync.Map

func schemaFor[T any]() (string, error) {
	typ := reflect.TypeFor[T]()
	if cached, ok := schemaCache.Load(typ); ok {
		return cached.(string), nil
	}

	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	s := r.ReflectFromType(typ)
	s.Version = ""
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering schema for %s: %w", typ, err)
	}
	schemaCache.Store(typ, string(data))
	return string(data), nil
}
