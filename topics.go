package solabi

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DecodeLog decodes a log emitted by e. Indexed scalars are read back
// from their topics; indexed strings, bytes, arrays and tuples are stored
// only as a hash, so their member is the raw 32-byte topic as []byte.
// Unindexed members are decoded from data. Members are keyed by their
// position in the declaration and by name.
func (e Event) DecodeLog(topics []common.Hash, data []byte, opts ...DecodeOption) (Values, error) {
	if !e.anonymous {
		if len(topics) == 0 {
			return nil, fmt.Errorf("%w: no topics for %s", ErrTopicMismatch, e.sig)
		}
		if topics[0] != e.id {
			return nil, fmt.Errorf("%w: topic %s, want %s", ErrTopicMismatch, topics[0], e.id)
		}
		topics = topics[1:]
	}

	var indexed, unindexed []int
	for i, p := range e.inputs {
		if p.Indexed {
			indexed = append(indexed, i)
		} else {
			unindexed = append(unindexed, i)
		}
	}
	if len(topics) != len(indexed) {
		return nil, fmt.Errorf("%w: got %d indexed topics for %s, want %d", ErrTopicMismatch, len(topics), e.sig, len(indexed))
	}

	d := newDecoder(opts)
	if err := d.start(func(i int) Type { return e.inputs[i].Type }, len(e.inputs), data); err != nil {
		return nil, err
	}
	members := make([]any, len(e.inputs))
	for n, i := range indexed {
		t := e.inputs[i].Type
		if !t.IsScalar() {
			members[i] = topics[n].Bytes()
			continue
		}
		v, err := decodeWord(t, topics[n][:], d.strict)
		if err != nil {
			return nil, err
		}
		members[i] = v
	}

	decoded, err := d.decodeList(func(n int) Type { return e.inputs[unindexed[n]].Type }, len(unindexed), data)
	if err != nil {
		return nil, err
	}
	for n, i := range unindexed {
		members[i] = decoded[n]
	}
	return newValues(func(i int) string { return e.inputs[i].Name }, members), nil
}

// Topics builds the topics of a log of e from its indexed arguments, in
// declaration order, for use in log filters. Strings and bytes are
// hashed; a common.Hash is taken as the topic as-is for any indexed
// parameter. Arrays and tuples must be given as a common.Hash.
func (e Event) Topics(values ...any) ([]common.Hash, error) {
	var indexed []Parameter
	for _, p := range e.inputs {
		if p.Indexed {
			indexed = append(indexed, p)
		}
	}
	if len(values) != len(indexed) {
		return nil, &ArgumentError{
			Method: e.name,
			Index:  len(values),
			Err:    fmt.Errorf("%w: got %d for %d indexed", ErrArgumentCount, len(values), len(indexed)),
		}
	}

	topics := make([]common.Hash, 0, len(indexed)+1)
	if !e.anonymous {
		topics = append(topics, e.id)
	}
	for i, p := range indexed {
		topic, err := topicOf(p.Type, values[i])
		if err != nil {
			return nil, &ArgumentError{Method: e.name, Index: i, Err: err}
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

func topicOf(t Type, v any) (common.Hash, error) {
	if h, ok := v.(common.Hash); ok {
		return h, nil
	}
	switch t.Kind {
	case StringKind, BytesKind:
		val, err := ValueOf(t, v)
		if err != nil {
			return common.Hash{}, err
		}
		switch x := val.(type) {
		case StringValue:
			return crypto.Keccak256Hash([]byte(x)), nil
		case BytesValue:
			return crypto.Keccak256Hash(x), nil
		}
	case ArrayKind, TupleKind:
		return common.Hash{}, encodingErr(t, nil, fmt.Errorf("%w: indexed %s topic must be given as its hash", ErrInvalidType, t))
	}
	val, err := ValueOf(t, v)
	if err != nil {
		return common.Hash{}, err
	}
	word, err := encodeWord(t, val)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(word), nil
}
