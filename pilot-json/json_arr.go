package pilot_json

import "strconv"

type JsonArray struct {
	data [][]byte
}

func NewJsonArray() *JsonArray {
	return &JsonArray{
		data: make([][]byte, 0),
	}
}

func (this *JsonArray) Parse(json []byte) error {
	s := scanner{data: json}
	if err := s.expect('['); err != nil {
		return err
	}
	if c, ok := s.peek(); ok && c == ']' {
		s.i++
		return nil
	}
	for {
		val, err := s.value()
		if err != nil {
			return err
		}
		this.data = append(this.data, val)
		c, ok := s.peek()
		if !ok {
			return errUnexpectedEnd
		}
		s.i++
		if c == ']' {
			return nil
		}
		if c != ',' {
			return CouldNotParseError(strconv.Itoa(len(this.data) - 1))
		}
	}
}

func (json *JsonArray) at(index int) ([]byte, *JsonFieldError) {
	if index < 0 || index >= len(json.data) {
		return nil, NoFieldError(strconv.Itoa(index))
	}
	return json.data[index], nil
}

func (json *JsonArray) GetString(index int) (*string, *JsonFieldError) {
	val, err := json.at(index)
	if err != nil {
		return nil, err
	}
	str, ok := unquote(val)
	if !ok {
		return nil, InvalidFieldError(strconv.Itoa(index), "string")
	}
	return &str, nil
}

func (json *JsonArray) GetInt64(index int) (*int64, *JsonFieldError) {
	val, err := json.at(index)
	if err != nil {
		return nil, err
	}
	i, perr := strconv.ParseInt(string(val), 10, 64)
	if perr != nil {
		return nil, InvalidFieldError(strconv.Itoa(index), "int64")
	}
	return &i, nil
}

func (json *JsonArray) GetBool(index int) (*bool, *JsonFieldError) {
	val, err := json.at(index)
	if err != nil {
		return nil, err
	}
	b, perr := strconv.ParseBool(string(val))
	if perr != nil {
		return nil, InvalidFieldError(strconv.Itoa(index), "bool")
	}
	return &b, nil
}

func (json *JsonArray) GetObject(index int) (*JsonObject, *JsonFieldError) {
	val, err := json.at(index)
	if err != nil {
		return nil, err
	}
	obj := NewJsonObject()
	if perr := obj.Parse(val); perr != nil {
		return nil, CouldNotParseError(strconv.Itoa(index))
	}
	return obj, nil
}

func (json *JsonArray) Length() int {
	return len(json.data)
}
