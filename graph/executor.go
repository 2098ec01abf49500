package graph

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	"go.uber.org/zap"
)

//go:embed schema.graphqls
var sourceSchema string

// Schema - разобранная схема API, общая для всех запросов
var Schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: sourceSchema})

type Request struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Response - ответ в формате GraphQL over HTTP.
// Data пустой, если запрос не прошел разбор или валидацию.
type Response struct {
	Data   interface{}   `json:"data,omitempty"`
	Errors gqlerror.List `json:"errors,omitempty"`
}

type arguments = map[string]interface{}

type fieldFunc func(ctx context.Context, args arguments) (interface{}, error)

// Executor выполняет документ против Resolver: корневые поля вызывают сервисы,
// результат проецируется на выбранные поля.
type Executor struct {
	schema    *ast.Schema
	queries   map[string]fieldFunc
	mutations map[string]fieldFunc
	log       *zap.Logger
}

func NewExecutor(r *Resolver, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		schema:    Schema,
		queries:   r.queryFields(),
		mutations: r.mutationFields(),
		log:       log,
	}
}

func (e *Executor) Execute(ctx context.Context, req Request) *Response {
	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		return &Response{Errors: gqlerror.List{gqlerror.WrapIfUnwrapped(err)}}
	}
	if errs := validator.Validate(e.schema, doc); len(errs) > 0 {
		return &Response{Errors: errs}
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("operation %q not found", req.OperationName)}}
	}

	vars, err := validator.VariableValues(e.schema, op, req.Variables)
	if err != nil {
		return &Response{Errors: gqlerror.List{gqlerror.WrapIfUnwrapped(err)}}
	}

	var (
		fields   map[string]fieldFunc
		rootType string
	)
	switch op.Operation {
	case ast.Query:
		fields, rootType = e.queries, "Query"
	case ast.Mutation:
		fields, rootType = e.mutations, "Mutation"
	default:
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("%s operations are not supported", op.Operation)}}
	}

	e.log.Debug("graphql operation",
		zap.String("operation", string(op.Operation)),
		zap.String("name", op.Name),
	)

	// корневые поля выполняются по порядку, мутации в том числе
	data := newObject()
	var errs gqlerror.List
	for _, f := range collectFields(op.SelectionSet, rootType, vars) {
		path := ast.Path{ast.PathName(f.alias)}

		switch {
		case f.name == "__typename":
			data.set(f.alias, rootType)
			continue
		case f.name == "__schema" || f.name == "__type":
			data.set(f.alias, e.introspect(f, vars))
			continue
		}

		resolve, ok := fields[f.name]
		if !ok {
			errs = append(errs, gqlerror.ErrorPathf(path, "field %s is not implemented", f.name))
			data.set(f.alias, nil)
			continue
		}

		value, err := resolve(ctx, f.field.ArgumentMap(vars))
		if err == nil {
			value, err = normalize(value)
		}
		if err != nil {
			errs = append(errs, e.fieldError(path, err))
			data.set(f.alias, nil)
			continue
		}
		data.set(f.alias, complete(value, f.selection, f.typeName, vars))
	}

	return &Response{Data: data, Errors: errs}
}

// fieldError превращает ошибку сервиса в ошибку GraphQL с кодом категории.
// Текст внутренних ошибок наружу не уходит.
func (e *Executor) fieldError(path ast.Path, err error) *gqlerror.Error {
	kind := apperror.KindOf(err)
	message := err.Error()
	if kind == apperror.KindInternal {
		e.log.Error("graphql field failed", zap.String("path", path.String()), zap.Error(err))
		message = "internal error"
	}
	return &gqlerror.Error{
		Err:        err,
		Message:    message,
		Path:       path,
		Extensions: map[string]interface{}{"code": CodeOf(kind)},
	}
}

// CodeOf - значение extensions.code для категории ошибки
func CodeOf(kind apperror.Kind) string {
	if kind == "" {
		kind = apperror.KindInternal
	}
	return strings.ToUpper(string(kind))
}

// normalize приводит результат резолвера к дереву из map/slice/скаляров
// через его JSON-представление
func normalize(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, apperror.Internal("encode result", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, apperror.Internal("decode result", err)
	}
	return out, nil
}

// complete оставляет в значении только выбранные поля под их алиасами
func complete(v interface{}, sel ast.SelectionSet, typeName string, vars map[string]interface{}) interface{} {
	switch x := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = complete(item, sel, typeName, vars)
		}
		return out
	case map[string]interface{}:
		obj := newObject()
		for _, f := range collectFields(sel, typeName, vars) {
			if f.name == "__typename" {
				obj.set(f.alias, typeName)
				continue
			}
			obj.set(f.alias, complete(x[f.name], f.selection, f.typeName, vars))
		}
		return obj
	}
	return v
}

type collectedField struct {
	alias     string
	name      string
	typeName  string
	field     *ast.Field
	selection ast.SelectionSet
}

// collectFields раскрывает фрагменты и склеивает поля с одинаковым алиасом
func collectFields(set ast.SelectionSet, typeName string, vars map[string]interface{}) []*collectedField {
	var out []*collectedField
	seen := map[string]*collectedField{}

	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, s := range set {
			switch sel := s.(type) {
			case *ast.Field:
				if !included(sel.Directives, vars) {
					continue
				}
				if f, ok := seen[sel.Alias]; ok {
					merged := make(ast.SelectionSet, 0, len(f.selection)+len(sel.SelectionSet))
					f.selection = append(append(merged, f.selection...), sel.SelectionSet...)
					continue
				}
				f := &collectedField{
					alias:     sel.Alias,
					name:      sel.Name,
					field:     sel,
					selection: sel.SelectionSet,
				}
				if sel.Definition != nil && sel.Definition.Type != nil {
					f.typeName = sel.Definition.Type.Name()
				}
				seen[sel.Alias] = f
				out = append(out, f)
			case *ast.FragmentSpread:
				if sel.Definition == nil || !included(sel.Directives, vars) || !applies(sel.Definition.TypeCondition, typeName) {
					continue
				}
				walk(sel.Definition.SelectionSet)
			case *ast.InlineFragment:
				if !included(sel.Directives, vars) || !applies(sel.TypeCondition, typeName) {
					continue
				}
				walk(sel.SelectionSet)
			}
		}
	}
	walk(set)
	return out
}

func applies(condition, typeName string) bool {
	return condition == "" || condition == typeName
}

// included учитывает @skip и @include
func included(directives ast.DirectiveList, vars map[string]interface{}) bool {
	if d := directives.ForName("skip"); d != nil && directiveIf(d, vars) {
		return false
	}
	if d := directives.ForName("include"); d != nil && !directiveIf(d, vars) {
		return false
	}
	return true
}

func directiveIf(d *ast.Directive, vars map[string]interface{}) bool {
	v, _ := d.ArgumentMap(vars)["if"].(bool)
	return v
}

// object - JSON-объект, сохраняющий порядок полей из запроса
type object struct {
	keys   []string
	values map[string]interface{}
}

func newObject() *object {
	return &object{values: map[string]interface{}{}}
}

func (o *object) set(key string, v interface{}) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
