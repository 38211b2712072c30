// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapkNrhDgqyKOGAgyi31fTB4gΞΞ   = ord.NewMapSer[string, GenericField](ord.String, GenericFieldMUS)
	slice5Fns3yBjI07MalIq78wE3QΞΞ = ord.NewSliceSer[string](ord.String)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var GenericFieldMUS = genericFieldMUS{}

type genericFieldMUS struct{}

func (s genericFieldMUS) Marshal(v GenericField, bs []byte) (n int) {
	n = slice5Fns3yBjI07MalIq78wE3QΞΞ.Marshal(v.Show, bs)
	n += slice5Fns3yBjI07MalIq78wE3QΞΞ.Marshal(v.Index, bs[n:])
	return n + slice5Fns3yBjI07MalIq78wE3QΞΞ.Marshal(v.Original, bs[n:])
}

func (s genericFieldMUS) Unmarshal(bs []byte) (v GenericField, n int, err error) {
	v.Show, n, err = slice5Fns3yBjI07MalIq78wE3QΞΞ.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Index, n1, err = slice5Fns3yBjI07MalIq78wE3QΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Original, n1, err = slice5Fns3yBjI07MalIq78wE3QΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s genericFieldMUS) Size(v GenericField) (size int) {
	size = slice5Fns3yBjI07MalIq78wE3QΞΞ.Size(v.Show)
	size += slice5Fns3yBjI07MalIq78wE3QΞΞ.Size(v.Index)
	return size + slice5Fns3yBjI07MalIq78wE3QΞΞ.Size(v.Original)
}

func (s genericFieldMUS) Skip(bs []byte) (n int, err error) {
	n, err = slice5Fns3yBjI07MalIq78wE3QΞΞ.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = slice5Fns3yBjI07MalIq78wE3QΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slice5Fns3yBjI07MalIq78wE3QΞΞ.Skip(bs[n:])
	n += n1
	return
}

var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.ECLI, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.Date, bs[n:])
	n += mapkNrhDgqyKOGAgyi31fTB4gΞΞ.Marshal(v.Fields, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.ECLI, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Date, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Fields, n1, err = mapkNrhDgqyKOGAgyi31fTB4gΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentMUS) Size(v Document) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.ECLI)
	size += raw.TimeUnixMicro.Size(v.Date)
	size += mapkNrhDgqyKOGAgyi31fTB4gΞΞ.Size(v.Fields)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapkNrhDgqyKOGAgyi31fTB4gΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
