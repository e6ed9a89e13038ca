package node

import (
	"fmt"
	"strings"
)

// Type tags a node with its component kind. Values follow the native node
// type enum and index the per-type instrumentation tables.
type Type int32

const (
	TypeText Type = iota + 1
	TypeSpan
	TypeImageSpan
	TypeImage
	TypeToggle
	TypeLoadingProgress
	TypeTextInput
	TypeStack
	TypeScroll
	TypeList
	TypeSwiper
	TypeTextArea
	TypeButton
	TypeProgress
	TypeCheckbox
	TypeColumn
	TypeRow
	TypeFlex
	TypeListItem
	TypeTabs
	TypeNavigator
	TypeWeb
	TypeSlider
	TypeCanvas
	TypeRadio
	TypeGrid
	TypeXComponent
	TypeSidebar
	TypeRefresh
	TypeRoot
	TypeComponentRoot
	TypeListItemGroup
	TypeDatePicker
	TypeTimePicker
	TypeTextPicker
	TypeCalendarPicker
	TypeGridItem
	TypeCustom
	TypeNavigation
	TypeWaterFlow
	TypeFlowItem
	TypeRelativeContainer
	TypeBlank
	TypeDivider
	TypeAlphabetIndexer
	TypeSearch
	TypeGridRow
	TypeGridCol
	TypeCircle
	TypeTabContent
)

var typeNames = map[Type]string{
	TypeText:              "text",
	TypeSpan:              "span",
	TypeImageSpan:         "image-span",
	TypeImage:             "image",
	TypeToggle:            "toggle",
	TypeLoadingProgress:   "loading-progress",
	TypeTextInput:         "text-input",
	TypeStack:             "stack",
	TypeScroll:            "scroll",
	TypeList:              "list",
	TypeSwiper:            "swiper",
	TypeTextArea:          "text-area",
	TypeButton:            "button",
	TypeProgress:          "progress",
	TypeCheckbox:          "checkbox",
	TypeColumn:            "column",
	TypeRow:               "row",
	TypeFlex:              "flex",
	TypeListItem:          "list-item",
	TypeTabs:              "tabs",
	TypeNavigator:         "navigator",
	TypeWeb:               "web",
	TypeSlider:            "slider",
	TypeCanvas:            "canvas",
	TypeRadio:             "radio",
	TypeGrid:              "grid",
	TypeXComponent:        "xcomponent",
	TypeSidebar:           "sidebar",
	TypeRefresh:           "refresh",
	TypeRoot:              "root",
	TypeComponentRoot:     "component-root",
	TypeListItemGroup:     "list-item-group",
	TypeDatePicker:        "date-picker",
	TypeTimePicker:        "time-picker",
	TypeTextPicker:        "text-picker",
	TypeCalendarPicker:    "calendar-picker",
	TypeGridItem:          "grid-item",
	TypeCustom:            "custom",
	TypeNavigation:        "navigation",
	TypeWaterFlow:         "water-flow",
	TypeFlowItem:          "flow-item",
	TypeRelativeContainer: "relative-container",
	TypeBlank:             "blank",
	TypeDivider:           "divider",
	TypeAlphabetIndexer:   "alphabet-indexer",
	TypeSearch:            "search",
	TypeGridRow:           "grid-row",
	TypeGridCol:           "grid-col",
	TypeCircle:            "circle",
	TypeTabContent:        "tab-content",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type%d", int32(t))
}

// ParseType resolves a type name as produced by String.
func ParseType(name string) (Type, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown node type %q", name)
}

// Flags selects which phases are delegated to a custom callback.
type Flags int32

const (
	FlagNone          Flags = 0
	FlagCustomMeasure Flags = 1 << 0
	FlagCustomLayout  Flags = 1 << 1
	FlagCustomDraw    Flags = 1 << 2
)

// Has reports whether every bit in f is set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

func (fl Flags) String() string {
	if fl == FlagNone {
		return "none"
	}
	var parts []string
	if fl.Has(FlagCustomMeasure) {
		parts = append(parts, "measure")
	}
	if fl.Has(FlagCustomLayout) {
		parts = append(parts, "layout")
	}
	if fl.Has(FlagCustomDraw) {
		parts = append(parts, "draw")
	}
	if rest := fl &^ (FlagCustomMeasure | FlagCustomLayout | FlagCustomDraw); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", int32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseFlags parses names separated by '|' or ',' ("measure|draw").
func ParseFlags(s string) (Flags, error) {
	var fl Flags
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "measure":
			fl |= FlagCustomMeasure
		case "layout":
			fl |= FlagCustomLayout
		case "draw":
			fl |= FlagCustomDraw
		case "none", "":
		default:
			return 0, fmt.Errorf("unknown custom flag %q", part)
		}
	}
	return fl, nil
}

// DirtyFlag records which phases must rerun for a node.
type DirtyFlag uint32

const (
	DirtyMeasure DirtyFlag = 1 << iota
	DirtyLayout
	DirtyDraw

	DirtyAll = DirtyMeasure | DirtyLayout | DirtyDraw
)
