package abi

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// Codec decodes parameter lists described by registry params
type Codec struct{}

// NewCodec creates a new codec
func NewCodec() *Codec {
	return &Codec{}
}

// DecodeArgs decodes data as the tuple of params
func (c *Codec) DecodeArgs(data []byte, params []domain.Param) ([]any, error) {
	types, err := ParamTypes(params)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(types))
	head := 0
	for i, t := range types {
		v, n, err := Decode(data, head, t)
		if err != nil {
			return nil, withParam(err, params[i].Name)
		}
		values[i] = v
		head += n
	}
	return values, nil
}

// DecodeTopic decodes a single indexed param from its topic
func (c *Codec) DecodeTopic(topic common.Hash, param domain.Param) (any, error) {
	t, err := NewType(param.Type, param.Components)
	if err != nil {
		return nil, err
	}
	v, err := DecodeTopic(topic, t)
	if err != nil {
		return nil, withParam(err, param.Name)
	}
	return v, nil
}

// HashedInTopic reports whether an indexed param only survives as a hash
func (c *Codec) HashedInTopic(param domain.Param) (bool, error) {
	t, err := NewType(param.Type, param.Components)
	if err != nil {
		return false, err
	}
	return IsHashedInTopic(t), nil
}

func withParam(err error, name string) error {
	if de, ok := err.(domain.DecodeError); ok && de.Param == "" {
		de.Param = name
		return de
	}
	return err
}

var _ usecase.PayloadDecoder = (*Codec)(nil)
