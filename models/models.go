package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Имена полей, по которым хранилище умеет фильтровать записи
const (
	FieldID                  = "id"
	FieldUserID              = "userId"
	FieldMemberTypeID        = "memberTypeId"
	FieldSubscribedToUserIds = "subscribedToUserIds"
)

// IDList - упорядоченный список id, в БД хранится как JSON-строка
type IDList []string

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *IDList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = IDList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported id list source %T", src)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("decode id list: %w", err)
	}
	*l = ids
	return nil
}

// Contains сообщает, есть ли id в списке
func (l IDList) Contains(id string) bool {
	return l.IndexOf(id) != -1
}

func (l IDList) IndexOf(id string) int {
	for i, v := range l {
		if v == id {
			return i
		}
	}
	return -1
}

// Without возвращает копию списка без id, порядок остальных элементов сохраняется
func (l IDList) Without(id string) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (l IDList) Clone() IDList {
	out := make(IDList, len(l))
	copy(out, l)
	return out
}

type User struct {
	ID                  string `gorm:"primary_key" json:"id"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	SubscribedToUserIds IDList `gorm:"type:text" json:"subscribedToUserIds"`
}

func (u User) GetID() string { return u.ID }

func (u User) WithID(id string) User {
	u = u.Clone()
	u.ID = id
	return u
}

func (u User) Clone() User {
	u.SubscribedToUserIds = u.SubscribedToUserIds.Clone()
	return u
}

func (u User) FieldValue(field string) (interface{}, bool) {
	switch field {
	case FieldID:
		return u.ID, true
	case FieldSubscribedToUserIds:
		return []string(u.SubscribedToUserIds), true
	}
	return nil, false
}

type Profile struct {
	ID           string `gorm:"primary_key" json:"id"`
	Avatar       string `json:"avatar"`
	Sex          string `json:"sex"`
	Birthday     int    `json:"birthday"`
	Country      string `json:"country"`
	Street       string `json:"street"`
	City         string `json:"city"`
	MemberTypeID string `gorm:"index" json:"memberTypeId"`
	UserID       string `gorm:"unique_index" json:"userId"`
}

func (p Profile) GetID() string { return p.ID }

func (p Profile) WithID(id string) Profile {
	p.ID = id
	return p
}

func (p Profile) Clone() Profile { return p }

func (p Profile) FieldValue(field string) (interface{}, bool) {
	switch field {
	case FieldID:
		return p.ID, true
	case FieldUserID:
		return p.UserID, true
	case FieldMemberTypeID:
		return p.MemberTypeID, true
	}
	return nil, false
}

type Post struct {
	ID      string `gorm:"primary_key" json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  string `gorm:"index" json:"userId"`
}

func (p Post) GetID() string { return p.ID }

func (p Post) WithID(id string) Post {
	p.ID = id
	return p
}

func (p Post) Clone() Post { return p }

func (p Post) FieldValue(field string) (interface{}, bool) {
	switch field {
	case FieldID:
		return p.ID, true
	case FieldUserID:
		return p.UserID, true
	}
	return nil, false
}

type MemberType struct {
	ID              string `gorm:"primary_key" json:"id"`
	Discount        int    `json:"discount"`
	MonthPostsLimit int    `json:"monthPostsLimit"`
}

func (m MemberType) GetID() string { return m.ID }

func (m MemberType) WithID(id string) MemberType {
	m.ID = id
	return m
}

func (m MemberType) Clone() MemberType { return m }

func (m MemberType) FieldValue(field string) (interface{}, bool) {
	if field == FieldID {
		return m.ID, true
	}
	return nil, false
}

// DefaultMemberTypes - каталог, который заливается при старте
func DefaultMemberTypes() []MemberType {
	return []MemberType{
		{ID: "basic", Discount: 0, MonthPostsLimit: 20},
		{ID: "business", Discount: 5, MonthPostsLimit: 100},
	}
}
