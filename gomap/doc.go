// Package gomap converts Go object graphs to and from ir nodes.
//
// Values are dispatched through a Registry of formats: the first format
// whose CanHandle accepts the dynamic type of a value is used. The
// built-in formats cover scalars, byte slices, pointers to values,
// time.Time and time.Duration, uuid.UUID, decimals, enums, sets,
// FixedLayout structs, arrays, slices, *list.List and maps. The reflective
// object format comes last and handles any struct.
//
// Pointers to structs have identity. The first time a pointer is seen it
// is written in full with a "$id" entry; later occurrences are written as
// {"$id": n}. On the way back the object is allocated and bound to its id
// before its fields are read, so cycles, self references and shared
// objects come back as the same instances:
//
//	type Person struct {
//		Name   string
//		Friend *Person `graph:"omitnull"`
//	}
//	a := &Person{Name: "a"}
//	a.Friend = a
//	n, err := gomap.Serialize(a)
//	// {"Name": "a", "Friend": {"$id": 1}, "$id": 1}
//
// Type names are embedded as "$type" according to the TypeMode. Go cannot
// list the types of a program, so a name can only be resolved once its
// type was serialized in this process or registered with
// TypeTable.RegisterType.
//
// Only exported fields are serialized. Struct tags with the key "graph"
// rename fields, list historical names, omit null values, exclude fields
// and mark dependency ids; see TagProvider.
//
// Errors converting a single field are logged and the field is skipped or
// left at its zero value; the rest of the object is still processed.
package gomap
