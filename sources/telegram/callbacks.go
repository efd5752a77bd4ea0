package telegram

import (
	"errors"
	"fmt"
	"strconv"

	"coronabot/sources/framework/callbacks"
	"coronabot/sources/paging"
	"coronabot/sources/statistics"
)

var ErrUnrecognizedCallback = errors.New("unrecognized callback payload")

type CallbackKind string

const (
	CallbackList      CallbackKind = "list"
	CallbackOrderMenu CallbackKind = "list_order_menu"
	CallbackOrder     CallbackKind = "list_order"
	CallbackStats     CallbackKind = "stats"
)

// Callback is one decoded button press. Only the fields of the decoded
// kind are meaningful.
type Callback struct {
	Kind     CallbackKind
	Page     int
	Size     int
	Open     bool
	Last     bool
	Sort     statistics.SortKey
	Location string
	Detailed bool
}

// Codec mints and decodes the button payload grammar. The grammar is
// wire-stable: buttons minted before a deploy must still decode, so
// out-of-range numbers clamp instead of failing.
type Codec struct {
	parser *callbacks.Parser
}

func NewCodec() *Codec {
	parser := callbacks.NewParser().MustRegister(
		"list {page} {size}",
		"list_order_menu {open} {page} {size} {last}",
		"list_order {sort} {size}",
		"stats {location} {detailed}",
	)
	return &Codec{parser: parser}
}

func (x *Codec) EncodeList(page, size int) string {
	return fmt.Sprintf("list %d %d", page, size)
}

func (x *Codec) EncodeOrderMenu(open bool, page, size int, last bool) string {
	return fmt.Sprintf("list_order_menu %s %d %d %s", boolToken(open), page, size, boolToken(last))
}

func (x *Codec) EncodeOrder(sort statistics.SortKey, size int) string {
	return fmt.Sprintf("list_order %s %d", sort, size)
}

func (x *Codec) EncodeStats(location string, detailed bool) string {
	return fmt.Sprintf("stats %s %s", location, boolToken(detailed))
}

func (x *Codec) Decode(data string) (*Callback, error) {
	result, err := x.parser.Parse(data)
	if err != nil {
		return nil, ErrUnrecognizedCallback
	}

	switch result.Schema {
	case string(CallbackList):
		page, err := strconv.Atoi(result.Get("page"))
		if err != nil {
			return nil, ErrUnrecognizedCallback
		}
		size, err := strconv.Atoi(result.Get("size"))
		if err != nil {
			return nil, ErrUnrecognizedCallback
		}
		return &Callback{
			Kind: CallbackList,
			Page: paging.ClampIndex(page),
			Size: paging.ClampSize(size),
		}, nil

	case string(CallbackOrderMenu):
		page, err := strconv.Atoi(result.Get("page"))
		if err != nil {
			return nil, ErrUnrecognizedCallback
		}
		size, err := strconv.Atoi(result.Get("size"))
		if err != nil {
			return nil, ErrUnrecognizedCallback
		}
		return &Callback{
			Kind: CallbackOrderMenu,
			Open: tokenBool(result.Get("open")),
			Page: paging.ClampIndex(page),
			Size: paging.ClampSize(size),
			Last: tokenBool(result.Get("last")),
		}, nil

	case string(CallbackOrder):
		size, err := strconv.Atoi(result.Get("size"))
		if err != nil {
			return nil, ErrUnrecognizedCallback
		}
		// Unknown sort tokens fall back to the default ordering
		// rather than dead-ending the button.
		sort, _ := statistics.ParseSortKey(result.Get("sort"))
		return &Callback{
			Kind: CallbackOrder,
			Sort: sort,
			Size: paging.ClampSize(size),
		}, nil

	case string(CallbackStats):
		return &Callback{
			Kind:     CallbackStats,
			Location: result.Get("location"),
			Detailed: tokenBool(result.Get("detailed")),
		}, nil
	}

	return nil, ErrUnrecognizedCallback
}

func boolToken(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func tokenBool(s string) bool {
	return s == "1"
}
