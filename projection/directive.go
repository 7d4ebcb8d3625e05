// Package projection decides, once and before any page is read, which
// entities of a secondary dataset appear in the output and under which
// names.
package projection

import (
	"github.com/sddsgo/xref/page"
)

// Directive is one of Take, Leave, Transfer, Rename, EditNames, Replace,
// IfIs or IfNot.
type Directive interface {
	directive()
}

// Take restricts the projected columns to those matching Names.
type Take struct {
	Names []string
}

// Leave removes the columns matching Names from the projected set.  The
// single name "*" leaves every column.
type Leave struct {
	Names []string
}

// Transfer copies the parameters or arrays matching Names.
type Transfer struct {
	Kind  page.Kind
	Names []string
}

// Rename gives the entity From the output name To.
type Rename struct {
	Kind page.Kind
	From string
	To   string
}

// EditNames applies Edit to every name matching Match.  Edit may contain
// "%ld", which is replaced with the 1-based number of the secondary.
type EditNames struct {
	Kind  page.Kind
	Match string
	Edit  string
}

// Replace makes the secondary's values overwrite those of the primary for
// the entities matching Names that exist in both.
type Replace struct {
	Kind  page.Kind
	Names []string
}

// IfIs requires the named entities to exist in the primary.
type IfIs struct {
	Kind  page.Kind
	Names []string
}

// IfNot requires the named entities to be absent from the primary.
type IfNot struct {
	Kind  page.Kind
	Names []string
}

func (Take) directive()      {}
func (Leave) directive()     {}
func (Transfer) directive()  {}
func (Rename) directive()    {}
func (EditNames) directive() {}
func (Replace) directive()   {}
func (IfIs) directive()      {}
func (IfNot) directive()     {}
