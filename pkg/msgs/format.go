package msgs

import (
	"fmt"
	"reflect"
)

// Format decodes typed and renders it as "[Name] fields" for display.
func Format(typed *Typed) string {
	msg, err := typed.Decode()
	if err != nil {
		return fmt.Sprintf("decode error: (type_id=%x) %v", typed.TypeId, err)
	}
	return fmt.Sprintf("#%d [%s] %s", typed.Sequence,
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		msg.(SerializableMessage).Serializable().String())
}
