package models

import (
	"encoding/json"
	"fmt"
)

// LinkageKind formun onaycısına bağlanma şekli.
type LinkageKind string

const (
	LinkageNone  LinkageKind = ""
	LinkageUser  LinkageKind = "user"
	LinkageGroup LinkageKind = "group"
)

// Linkage bir formun tek bir kullanıcıya VEYA tek bir gruba bağlanmasını temsil eder.
// Alanlar dışarı açık değildir; aynı anda hem kullanıcı hem grup tutan bir değer
// oluşturulamaz.
type Linkage struct {
	kind LinkageKind
	id   uint
}

func NoLinkage() Linkage { return Linkage{} }

// LinkUser id 0 ise bağlantısız değer döner.
func LinkUser(id uint) Linkage {
	if id == 0 {
		return Linkage{}
	}
	return Linkage{kind: LinkageUser, id: id}
}

func LinkGroup(id uint) Linkage {
	if id == 0 {
		return Linkage{}
	}
	return Linkage{kind: LinkageGroup, id: id}
}

// LinkageFromColumns veritabanındaki iki nullable kolondan değeri kurar.
// Kolonlar yalnızca Columns üzerinden yazıldığı için ikisi birden dolu olamaz;
// olursa kullanıcı bağlantısı geçerli sayılır.
func LinkageFromColumns(userID, groupID *uint) Linkage {
	if userID != nil && *userID != 0 {
		return LinkUser(*userID)
	}
	if groupID != nil && *groupID != 0 {
		return LinkGroup(*groupID)
	}
	return Linkage{}
}

func (l Linkage) Kind() LinkageKind { return l.kind }

func (l Linkage) UserID() (uint, bool) {
	return l.id, l.kind == LinkageUser
}

func (l Linkage) GroupID() (uint, bool) {
	return l.id, l.kind == LinkageGroup
}

// RequiresApproval bağlantı varsa formdan açılan ticket'lar onay bekler.
func (l Linkage) RequiresApproval() bool {
	return l.kind != LinkageNone
}

// Columns kalıcı katman için (linked_user_id, linked_group_id) çiftini döndürür.
func (l Linkage) Columns() (userID, groupID *uint) {
	id := l.id
	switch l.kind {
	case LinkageUser:
		return &id, nil
	case LinkageGroup:
		return nil, &id
	}
	return nil, nil
}

type linkageJSON struct {
	Kind LinkageKind `json:"kind"`
	ID   uint        `json:"id"`
}

func (l Linkage) MarshalJSON() ([]byte, error) {
	if l.kind == LinkageNone {
		return []byte("null"), nil
	}
	return json.Marshal(linkageJSON{Kind: l.kind, ID: l.id})
}

func (l *Linkage) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = Linkage{}
		return nil
	}
	var raw linkageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case LinkageNone:
		*l = Linkage{}
	case LinkageUser:
		*l = LinkUser(raw.ID)
	case LinkageGroup:
		*l = LinkGroup(raw.ID)
	default:
		return fmt.Errorf("bilinmeyen bağlantı türü: %q", raw.Kind)
	}
	return nil
}
