package pilot_json

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// JsonObject holds the raw value bytes of a flat or nested JSON object,
// decoded field by field on access.
type JsonObject struct {
	data map[string][]byte
	keys []string
}

func NewJsonObject() *JsonObject {
	return &JsonObject{
		data: make(map[string][]byte),
	}
}

func (this *JsonObject) Parse(json []byte) error {
	s := scanner{data: json}
	if _, ok := s.peek(); !ok {
		return nil
	}
	if err := s.expect('{'); err != nil {
		return err
	}
	if c, ok := s.peek(); ok && c == '}' {
		s.i++
		return nil
	}
	for {
		rawKey, err := s.str()
		if err != nil {
			return err
		}
		key, ok := unquote(rawKey)
		if !ok {
			return CouldNotParseError(string(rawKey))
		}
		if err := s.expect(':'); err != nil {
			return err
		}
		val, err := s.value()
		if err != nil {
			return err
		}
		if _, seen := this.data[key]; !seen {
			this.keys = append(this.keys, key)
		}
		this.data[key] = val
		c, ok := s.peek()
		if !ok {
			return errUnexpectedEnd
		}
		s.i++
		if c == '}' {
			return nil
		}
		if c != ',' {
			return CouldNotParseError(key)
		}
	}
}

// Keys returns field names in document order.
func (json *JsonObject) Keys() []string {
	return append([]string{}, json.keys...)
}

func (json *JsonObject) Has(key string) bool {
	_, ok := json.data[key]
	return ok
}

func (json *JsonObject) GetString(key string) (*string, *JsonFieldError) {
	val, ok := json.data[key]
	if !ok {
		return nil, NoFieldError(key)
	}
	str, ok := unquote(val)
	if !ok {
		return nil, InvalidFieldError(key, "string")
	}
	return &str, nil
}

func (json *JsonObject) GetInt32(key string) (*int32, *JsonFieldError) {
	val, ok := json.data[key]
	if !ok {
		return nil, NoFieldError(key)
	}
	i, err := strconv.ParseInt(string(val), 10, 32)
	if err != nil {
		return nil, InvalidFieldError(key, "int32")
	}
	i_sized := int32(i)
	return &i_sized, nil
}

func (json *JsonObject) GetInt64(key string) (*int64, *JsonFieldError) {
	val, ok := json.data[key]
	if !ok {
		return nil, NoFieldError(key)
	}
	i, err := strconv.ParseInt(string(val), 10, 64)
	if err != nil {
		return nil, InvalidFieldError(key, "int64")
	}
	return &i, nil
}

func (json *JsonObject) GetFloat64(key string) (*float64, *JsonFieldError) {
	val, ok := json.data[key]
	if !ok {
		return nil, NoFieldError(key)
	}
	f, err := strconv.ParseFloat(string(val), 64)
	if err != nil {
		return nil, InvalidFieldError(key, "float64")
	}
	return &f, nil
}

func (json *JsonObject) GetBool(key string) (*bool, *JsonFieldError) {
	val, ok := json.data[key]
	if !ok {
		return nil, NoFieldError(key)
	}
	b, err := strconv.ParseBool(string(val))
	if err != nil {
		return nil, InvalidFieldError(key, "bool")
	}
	return &b, nil
}

func (json *JsonObject) GetObject(key string) (*JsonObject, *JsonFieldError) {
	val, ok := json.data[key]
	if !ok {
		return nil, NoFieldError(key)
	}
	obj := NewJsonObject()
	if err := obj.Parse(val); err != nil {
		return nil, CouldNotParseError(key)
	}
	return obj, nil
}

func (json *JsonObject) GetArray(key string) (*JsonArray, *JsonFieldError) {
	val, ok := json.data[key]
	if !ok {
		return nil, NoFieldError(key)
	}
	arr := NewJsonArray()
	if err := arr.Parse(val); err != nil {
		return nil, CouldNotParseError(key)
	}
	return arr, nil
}

func (json *JsonObject) GetData(key string) ([]byte, *JsonFieldError) {
	val, ok := json.data[key]
	if !ok {
		return nil, NoFieldError(key)
	}
	return val, nil
}

func (json *JsonObject) GetTime(key string) (*time.Time, *JsonFieldError) {
	str, err := json.GetString(key)
	if err != nil {
		return nil, err
	}
	t, perr := time.Parse(time.RFC3339, *str)
	if perr != nil {
		return nil, InvalidFieldError(key, "RFC3339 time")
	}
	return &t, nil
}

func (json *JsonObject) GetUuid(key string) (*uuid.UUID, *JsonFieldError) {
	str, err := json.GetString(key)
	if err != nil {
		return nil, err
	}
	id, perr := uuid.Parse(*str)
	if perr != nil {
		return nil, InvalidFieldError(key, "uuid")
	}
	return &id, nil
}
