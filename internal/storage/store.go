package storage

import (
	"context"
	"fmt"
)

// Entity - ограничение на тип записи хранилища
type Entity[T any] interface {
	GetID() string
	WithID(id string) T
	Clone() T
	FieldValue(field string) (interface{}, bool)
}

// Patch сливает присутствующие поля в запись
type Patch[T any] interface {
	Apply(rec T) T
}

type MatchMode int

const (
	// Equals - скалярное поле равно Value
	Equals MatchMode = iota
	// ElementOf - списочное поле содержит Value
	ElementOf
)

func (m MatchMode) String() string {
	switch m {
	case Equals:
		return "equals"
	case ElementOf:
		return "elementOf"
	}
	return fmt.Sprintf("MatchMode(%d)", int(m))
}

// Filter - предикат по одному полю
type Filter struct {
	Field string
	Mode  MatchMode
	Value string
}

func ByID(id string) Filter {
	return Filter{Field: "id", Mode: Equals, Value: id}
}

func FieldEquals(field, value string) *Filter {
	return &Filter{Field: field, Mode: Equals, Value: value}
}

func FieldContains(field, value string) *Filter {
	return &Filter{Field: field, Mode: ElementOf, Value: value}
}

type fielder interface {
	FieldValue(field string) (interface{}, bool)
}

// Match проверяет запись. Неизвестное поле не совпадает ни с чем.
func (f Filter) Match(rec fielder) bool {
	v, ok := rec.FieldValue(f.Field)
	if !ok {
		return false
	}

	switch f.Mode {
	case Equals:
		s, ok := v.(string)
		return ok && s == f.Value
	case ElementOf:
		list, ok := v.([]string)
		if !ok {
			return false
		}
		for _, item := range list {
			if item == f.Value {
				return true
			}
		}
	}
	return false
}

// Store - коллекция записей одного вида с доступом по id.
// Каждая операция атомарна относительно других операций того же хранилища.
type Store[T Entity[T]] interface {
	// FindMany возвращает записи в порядке перечисления хранилища; nil-фильтр - все записи
	FindMany(ctx context.Context, filter *Filter) ([]T, error)
	// FindOne возвращает первое совпадение; отсутствие записи - не ошибка
	FindOne(ctx context.Context, filter Filter) (T, bool, error)
	// Create назначает записи новый id
	Create(ctx context.Context, rec T) (T, error)
	Change(ctx context.Context, id string, patch Patch[T]) (T, error)
	Delete(ctx context.Context, id string) (T, error)
	// Insert сохраняет запись под ее собственным id, Conflict если id занят
	Insert(ctx context.Context, rec T) (T, error)
}

// Restorer - необязательная часть Store для бэкендов, у которых порядок перечисления
// задается порядком вставки. Откат удаления возвращает запись на прежнее место.
type Restorer[T Entity[T]] interface {
	// Position - индекс записи в порядке перечисления, -1 если записи нет
	Position(id string) int
	// InsertAt - Insert, который ставит запись на позицию pos
	InsertAt(ctx context.Context, rec T, pos int) (T, error)
}
