package graph

import (
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
)

// Интроспекция: __schema и __type отвечают через обертки схемы из gqlgen.
// Значения собираются сразу под выбранные поля, как и обычные результаты.

func (e *Executor) introspect(f *collectedField, vars map[string]interface{}) interface{} {
	switch f.name {
	case "__schema":
		return schemaValue(introspection.WrapSchema(e.schema), f.selection, vars)
	case "__type":
		def := e.schema.Types[idArg(f.field.ArgumentMap(vars), "name")]
		if def == nil {
			return nil
		}
		return typeValue(introspection.WrapTypeFromDef(e.schema, def), f.selection, vars)
	}
	return nil
}

func schemaValue(s *introspection.Schema, sel ast.SelectionSet, vars map[string]interface{}) interface{} {
	obj := newObject()
	for _, f := range collectFields(sel, "__Schema", vars) {
		switch f.name {
		case "__typename":
			obj.set(f.alias, "__Schema")
		case "description":
			obj.set(f.alias, s.Description())
		case "types":
			obj.set(f.alias, typeList(s.Types(), f.selection, vars))
		case "queryType":
			obj.set(f.alias, typeValue(s.QueryType(), f.selection, vars))
		case "mutationType":
			obj.set(f.alias, typeValue(s.MutationType(), f.selection, vars))
		case "subscriptionType":
			obj.set(f.alias, typeValue(s.SubscriptionType(), f.selection, vars))
		case "directives":
			directives := s.Directives()
			out := make([]interface{}, len(directives))
			for i := range directives {
				out[i] = directiveValue(&directives[i], f.selection, vars)
			}
			obj.set(f.alias, out)
		default:
			obj.set(f.alias, nil)
		}
	}
	return obj
}

func typeValue(t *introspection.Type, sel ast.SelectionSet, vars map[string]interface{}) interface{} {
	if t == nil {
		return nil
	}

	obj := newObject()
	for _, f := range collectFields(sel, "__Type", vars) {
		switch f.name {
		case "__typename":
			obj.set(f.alias, "__Type")
		case "kind":
			obj.set(f.alias, t.Kind())
		case "name":
			obj.set(f.alias, t.Name())
		case "description":
			obj.set(f.alias, t.Description())
		case "specifiedByURL":
			obj.set(f.alias, t.SpecifiedByURL())
		case "fields":
			fields := t.Fields(includeDeprecated(f, vars))
			out := make([]interface{}, len(fields))
			for i := range fields {
				out[i] = fieldValue(&fields[i], f.selection, vars)
			}
			obj.set(f.alias, out)
		case "interfaces":
			obj.set(f.alias, typeList(t.Interfaces(), f.selection, vars))
		case "possibleTypes":
			obj.set(f.alias, typeList(t.PossibleTypes(), f.selection, vars))
		case "enumValues":
			values := t.EnumValues(includeDeprecated(f, vars))
			out := make([]interface{}, len(values))
			for i := range values {
				out[i] = enumValue(&values[i], f.selection, vars)
			}
			obj.set(f.alias, out)
		case "inputFields":
			obj.set(f.alias, inputValues(t.InputFields(), f.selection, vars))
		case "ofType":
			obj.set(f.alias, typeValue(t.OfType(), f.selection, vars))
		case "isOneOf":
			obj.set(f.alias, t.IsOneOf())
		default:
			obj.set(f.alias, nil)
		}
	}
	return obj
}

func typeList(types []introspection.Type, sel ast.SelectionSet, vars map[string]interface{}) []interface{} {
	out := make([]interface{}, len(types))
	for i := range types {
		out[i] = typeValue(&types[i], sel, vars)
	}
	return out
}

func fieldValue(fd *introspection.Field, sel ast.SelectionSet, vars map[string]interface{}) interface{} {
	obj := newObject()
	for _, f := range collectFields(sel, "__Field", vars) {
		switch f.name {
		case "__typename":
			obj.set(f.alias, "__Field")
		case "name":
			obj.set(f.alias, fd.Name)
		case "description":
			obj.set(f.alias, fd.Description())
		case "args":
			obj.set(f.alias, inputValues(fd.Args, f.selection, vars))
		case "type":
			obj.set(f.alias, typeValue(fd.Type, f.selection, vars))
		case "isDeprecated":
			obj.set(f.alias, fd.IsDeprecated())
		case "deprecationReason":
			obj.set(f.alias, fd.DeprecationReason())
		default:
			obj.set(f.alias, nil)
		}
	}
	return obj
}

func inputValues(values []introspection.InputValue, sel ast.SelectionSet, vars map[string]interface{}) []interface{} {
	out := make([]interface{}, len(values))
	for i := range values {
		v := &values[i]
		obj := newObject()
		for _, f := range collectFields(sel, "__InputValue", vars) {
			switch f.name {
			case "__typename":
				obj.set(f.alias, "__InputValue")
			case "name":
				obj.set(f.alias, v.Name)
			case "description":
				obj.set(f.alias, v.Description())
			case "type":
				obj.set(f.alias, typeValue(v.Type, f.selection, vars))
			case "defaultValue":
				obj.set(f.alias, v.DefaultValue)
			case "isDeprecated":
				obj.set(f.alias, v.IsDeprecated())
			case "deprecationReason":
				obj.set(f.alias, v.DeprecationReason())
			default:
				obj.set(f.alias, nil)
			}
		}
		out[i] = obj
	}
	return out
}

func enumValue(ev *introspection.EnumValue, sel ast.SelectionSet, vars map[string]interface{}) interface{} {
	obj := newObject()
	for _, f := range collectFields(sel, "__EnumValue", vars) {
		switch f.name {
		case "__typename":
			obj.set(f.alias, "__EnumValue")
		case "name":
			obj.set(f.alias, ev.Name)
		case "description":
			obj.set(f.alias, ev.Description())
		case "isDeprecated":
			obj.set(f.alias, ev.IsDeprecated())
		case "deprecationReason":
			obj.set(f.alias, ev.DeprecationReason())
		default:
			obj.set(f.alias, nil)
		}
	}
	return obj
}

func directiveValue(d *introspection.Directive, sel ast.SelectionSet, vars map[string]interface{}) interface{} {
	obj := newObject()
	for _, f := range collectFields(sel, "__Directive", vars) {
		switch f.name {
		case "__typename":
			obj.set(f.alias, "__Directive")
		case "name":
			obj.set(f.alias, d.Name)
		case "description":
			obj.set(f.alias, d.Description())
		case "locations":
			obj.set(f.alias, d.Locations)
		case "args":
			obj.set(f.alias, inputValues(d.Args, f.selection, vars))
		case "isRepeatable":
			obj.set(f.alias, d.IsRepeatable)
		default:
			obj.set(f.alias, nil)
		}
	}
	return obj
}

func includeDeprecated(f *collectedField, vars map[string]interface{}) bool {
	v, _ := f.field.ArgumentMap(vars)["includeDeprecated"].(bool)
	return v
}
