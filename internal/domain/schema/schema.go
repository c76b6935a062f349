// Package schema define el formulario del reporte diario como configuración versionada.
// Validador y exportador leen el mismo Schema: qué campos existen, cuáles son numéricos,
// cuáles son obligatorios, cómo se derivan los totales y en qué sección se exportan.
package schema

import (
	"fmt"
	"sort"
)

// Kind tipo de un campo.
type Kind int

const (
	Number Kind = iota
	Text
)

func (k Kind) String() string {
	if k == Text {
		return "text"
	}
	return "number"
}

// Pseudo-campos que el export sintetiza a partir del dueño y la fecha del reporte.
const (
	PseudoUserName  = "userName"
	PseudoUserEmail = "userEmail"
	PseudoCreatedAt = "createdAt"
)

var pseudoLabels = map[string]string{
	PseudoUserName:  "User Name",
	PseudoUserEmail: "User Email",
	PseudoCreatedAt: "Created At",
}

// DefaultVersion versión activa si la configuración no indica otra.
const DefaultVersion = "v2"

// Field campo del formulario.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
}

// Formula campo derivado: max(ΣPlus − ΣMinus, 0).
type Formula struct {
	Target string
	Plus   []string
	Minus  []string
}

// Section grupo de columnas del export. Fields admite pseudo-campos.
type Section struct {
	Title  string
	Color  string // RGB hex, sin alfa
	Fields []string
}

// Schema formulario completo de una versión.
type Schema struct {
	Version  string
	Fields   []Field
	Formulas []Formula
	Sections []Section

	index   map[string]int
	derived map[string]bool
}

// New valida la coherencia interna del esquema y construye sus índices.
func New(version string, fields []Field, formulas []Formula, sections []Section) (*Schema, error) {
	s := &Schema{
		Version:  version,
		Fields:   fields,
		Formulas: formulas,
		Sections: sections,
		index:    make(map[string]int, len(fields)),
		derived:  make(map[string]bool, len(formulas)),
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("schema %s: campo duplicado %q", version, f.Name)
		}
		if _, pseudo := pseudoLabels[f.Name]; pseudo {
			return nil, fmt.Errorf("schema %s: %q es un pseudo-campo reservado", version, f.Name)
		}
		s.index[f.Name] = i
	}
	for _, fm := range formulas {
		target, ok := s.Field(fm.Target)
		if !ok || target.Kind != Number {
			return nil, fmt.Errorf("schema %s: destino de fórmula inválido %q", version, fm.Target)
		}
		if target.Required {
			return nil, fmt.Errorf("schema %s: el campo derivado %q no puede ser obligatorio", version, fm.Target)
		}
		for _, op := range append(append([]string{}, fm.Plus...), fm.Minus...) {
			f, ok := s.Field(op)
			if !ok || f.Kind != Number {
				return nil, fmt.Errorf("schema %s: operando inválido %q en %q", version, op, fm.Target)
			}
		}
		s.derived[fm.Target] = true
	}
	seen := make(map[string]bool)
	for _, sec := range sections {
		if len(sec.Fields) == 0 {
			return nil, fmt.Errorf("schema %s: sección vacía %q", version, sec.Title)
		}
		for _, name := range sec.Fields {
			if _, ok := s.index[name]; !ok {
				if _, pseudo := pseudoLabels[name]; !pseudo {
					return nil, fmt.Errorf("schema %s: la sección %q referencia %q", version, sec.Title, name)
				}
			}
			if seen[name] {
				return nil, fmt.Errorf("schema %s: columna repetida %q", version, name)
			}
			seen[name] = true
		}
	}
	return s, nil
}

// Field busca un campo por nombre.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// IsDerived indica si el campo se calcula en el servidor.
func (s *Schema) IsDerived(name string) bool { return s.derived[name] }

// NumberFields nombres de los campos numéricos en orden del esquema.
func (s *Schema) NumberFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Kind == Number {
			out = append(out, f.Name)
		}
	}
	return out
}

// Label etiqueta de columna de un campo o pseudo-campo.
func (s *Schema) Label(name string) string {
	if l, ok := pseudoLabels[name]; ok {
		return l
	}
	if f, ok := s.Field(name); ok {
		return f.Label
	}
	return name
}

func number(name, label string) Field { return Field{Name: name, Label: label, Kind: Number} }
func text(name, label string) Field   { return Field{Name: name, Label: label, Kind: Text} }

func (f Field) required() Field {
	f.Required = true
	return f
}

// requireInputs marca como obligatorio todo campo que no sea destino de una fórmula.
func requireInputs(fields []Field, formulas []Formula) []Field {
	targets := make(map[string]bool, len(formulas))
	for _, fm := range formulas {
		targets[fm.Target] = true
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		if !targets[f.Name] {
			f.Required = true
		}
		out[i] = f
	}
	return out
}

func sum(target string, plus ...string) Formula { return Formula{Target: target, Plus: plus} }

func remainder(target, minuend, subtrahend string) Formula {
	return Formula{Target: target, Plus: []string{minuend}, Minus: []string{subtrahend}}
}

var registry = map[string]*Schema{}

func register(s *Schema, err error) {
	if err != nil {
		panic(err)
	}
	registry[s.Version] = s
}

// Lookup devuelve el esquema registrado para la versión.
func Lookup(version string) (*Schema, error) {
	s, ok := registry[version]
	if !ok {
		return nil, fmt.Errorf("schema: versión desconocida %q", version)
	}
	return s, nil
}

// Versions versiones registradas, ordenadas.
func Versions() []string {
	out := make([]string, 0, len(registry))
	for v := range registry {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
