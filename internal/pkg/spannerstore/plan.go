package spannerstore

import (
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// Table describes how a record type maps onto a Spanner table.
type Table struct {
	Name     string
	IDColumn string
}

// Schema maps record-type tags to their tables.
type Schema map[string]Table

// buildPlan translates a batch into Spanner mutations, resolving pending
// references client-side: every create is assigned an identifier up front and
// later operations that embed its reference receive the resolved id. The
// returned results already carry the assigned identifiers; they become final
// only if the transaction commits.
func buildPlan(schema Schema, ops []unitofwork.Operation, newID func() string) ([]*spanner.Mutation, []unitofwork.OperationResult, error) {
	resolved := make(map[string]string, len(ops))
	muts := make([]*spanner.Mutation, 0, len(ops))
	results := make([]unitofwork.OperationResult, 0, len(ops))

	for _, op := range ops {
		tbl, ok := schema[op.RecordType()]
		if !ok {
			return nil, nil, fmt.Errorf("spannerstore: no table mapped for record type %q", op.RecordType())
		}

		switch op.Kind() {
		case unitofwork.OpCreate:
			id := newID()
			resolved[string(op.Handle())] = id

			cols := []string{tbl.IDColumn}
			vals := []interface{}{id}
			for name, v := range op.Fields() {
				val, err := columnValue(v, resolved)
				if err != nil {
					return nil, nil, fmt.Errorf("spannerstore: field %q: %w", name, err)
				}
				cols = append(cols, name)
				vals = append(vals, val)
			}
			muts = append(muts, spanner.Insert(tbl.Name, cols, vals))
			results = append(results, unitofwork.OperationResult{Handle: op.Handle(), Success: true, ID: id})

		case unitofwork.OpUpdate:
			id, err := targetID(op.Target(), resolved)
			if err != nil {
				return nil, nil, err
			}

			cols := []string{tbl.IDColumn}
			vals := []interface{}{id}
			for name, v := range op.Fields() {
				val, err := columnValue(v, resolved)
				if err != nil {
					return nil, nil, fmt.Errorf("spannerstore: field %q: %w", name, err)
				}
				cols = append(cols, name)
				vals = append(vals, val)
			}
			muts = append(muts, spanner.Update(tbl.Name, cols, vals))
			results = append(results, unitofwork.OperationResult{Handle: op.Handle(), Success: true, ID: id})

		case unitofwork.OpDelete:
			id, err := targetID(op.Target(), resolved)
			if err != nil {
				return nil, nil, err
			}
			muts = append(muts, spanner.Delete(tbl.Name, spanner.Key{id}))
			results = append(results, unitofwork.OperationResult{Handle: op.Handle(), Success: true, ID: id})

		default:
			return nil, nil, fmt.Errorf("spannerstore: unsupported operation kind %s", op.Kind())
		}
	}

	return muts, results, nil
}

func targetID(v unitofwork.Value, resolved map[string]string) (string, error) {
	if !v.IsReference() {
		return v.AsString(), nil
	}
	id, ok := resolved[v.AsRef().Token()]
	if !ok {
		return "", fmt.Errorf("spannerstore: unresolved reference %s", v.AsRef().Token())
	}
	return id, nil
}

// columnValue converts a tagged value to its Spanner column representation.
// Decimals stay strings so precision survives storage.
func columnValue(v unitofwork.Value, resolved map[string]string) (interface{}, error) {
	switch v.Kind() {
	case unitofwork.KindString:
		return v.AsString(), nil
	case unitofwork.KindDecimal:
		return v.AsString(), nil
	case unitofwork.KindNumber:
		return v.AsNumber(), nil
	case unitofwork.KindBool:
		return v.AsBool(), nil
	case unitofwork.KindNull:
		// Untyped nil is not encodable as a mutation value. Every nullable
		// column this service writes is a STRING, so a string NULL suffices.
		return spanner.NullString{}, nil
	case unitofwork.KindReference:
		id, ok := resolved[v.AsRef().Token()]
		if !ok {
			return nil, fmt.Errorf("unresolved reference %s", v.AsRef().Token())
		}
		return id, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %d", v.Kind())
	}
}
