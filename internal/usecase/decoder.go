package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/samber/lo"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
)

// DecodeRequest describes one payload to decode
type DecodeRequest struct {
	Kind domain.Kind
	Data []byte
	// Topics carries the log topics of an event, topic 0 being its selector
	Topics []common.Hash
	// Return decodes Data as the outputs of the function named by Selector
	Return   bool
	Selector domain.Selector
	Hint     domain.Hint
}

// Decoder resolves payload selectors against the registry and decodes their
// arguments. It holds no mutable state and is safe for concurrent use.
type Decoder struct {
	config    *config.RuntimeConfig
	source    IndexSource
	resolver  NamespaceResolver
	codec     PayloadDecoder
	formatter MessageFormatter
	selector  CandidateSelector
	log       *slog.Logger
}

// NewDecoder creates a new decoder
func NewDecoder(
	cfg *config.RuntimeConfig,
	source IndexSource,
	resolver NamespaceResolver,
	codec PayloadDecoder,
	formatter MessageFormatter,
	selector CandidateSelector,
	log *slog.Logger,
) *Decoder {
	return &Decoder{
		config:    cfg,
		source:    source,
		resolver:  resolver,
		codec:     codec,
		formatter: formatter,
		selector:  selector,
		log:       log.With("component", "Decoder"),
	}
}

// DecodeError decodes revert data: a 4-byte error selector followed by its arguments
func (d *Decoder) DecodeError(ctx context.Context, data []byte, hint domain.Hint) (*domain.Result, error) {
	return d.Decode(ctx, DecodeRequest{Kind: domain.KindError, Data: data, Hint: hint})
}

// DecodeCall decodes call data: a 4-byte function selector followed by its arguments
func (d *Decoder) DecodeCall(ctx context.Context, data []byte, hint domain.Hint) (*domain.Result, error) {
	return d.Decode(ctx, DecodeRequest{Kind: domain.KindFunction, Data: data, Hint: hint})
}

// DecodeLog decodes an event from its topics and data
func (d *Decoder) DecodeLog(ctx context.Context, topics []common.Hash, data []byte, hint domain.Hint) (*domain.Result, error) {
	return d.Decode(ctx, DecodeRequest{Kind: domain.KindEvent, Topics: topics, Data: data, Hint: hint})
}

// DecodeReceiptLog decodes a receipt log. The emitting address is used as the
// contract hint unless the hint already names a namespace or contract.
func (d *Decoder) DecodeReceiptLog(ctx context.Context, log *types.Log, hint domain.Hint) (*domain.Result, error) {
	if hint.IsZero() {
		addr := log.Address
		hint.Contract = &addr
	}
	return d.DecodeLog(ctx, log.Topics, log.Data, hint)
}

// DecodeReturn decodes return data of the function identified by selector
func (d *Decoder) DecodeReturn(ctx context.Context, selector domain.Selector, data []byte, hint domain.Hint) (*domain.Result, error) {
	return d.Decode(ctx, DecodeRequest{Kind: domain.KindFunction, Return: true, Selector: selector, Data: data, Hint: hint})
}

// Decode decodes a request, prompting for a candidate when the selector is
// ambiguous and interactive mode allows it
func (d *Decoder) Decode(ctx context.Context, req DecodeRequest) (*domain.Result, error) {
	return d.decode(ctx, req, !d.config.NonInteractive)
}

// Describe renders the notice of a decoded result into result.Message
func (d *Decoder) Describe(result *domain.Result) error {
	msg, err := d.formatter.Format(result.Definition, result.Values)
	if err != nil {
		return err
	}
	result.Message = msg
	return nil
}

func (d *Decoder) decode(ctx context.Context, req DecodeRequest, prompt bool) (*domain.Result, error) {
	switch req.Kind {
	case domain.KindError, domain.KindFunction:
		if req.Return {
			return d.decodeReturn(ctx, req, prompt)
		}
		return d.decodeSelectorPayload(ctx, req, prompt)
	case domain.KindEvent:
		return d.decodeEvent(ctx, req, prompt)
	}
	return nil, fmt.Errorf("unsupported kind %s", req.Kind)
}

func (d *Decoder) decodeSelectorPayload(ctx context.Context, req DecodeRequest, prompt bool) (*domain.Result, error) {
	if len(req.Data) < 4 {
		return nil, domain.DecodeError{
			Reason: domain.ReasonBufferUnderrun,
			Type:   "bytes4",
			Param:  "selector",
		}
	}
	selector, _ := domain.SelectorFromBytes(req.Data[:4])

	def, ns, err := d.resolve(ctx, d.lookup(req.Kind, selector), req.Hint, prompt)
	if err != nil {
		return nil, err
	}

	values, err := d.codec.DecodeArgs(req.Data[4:], def.Inputs)
	if err != nil {
		return nil, err
	}
	return d.result(def, ns, def.Inputs, values, nil), nil
}

func (d *Decoder) decodeReturn(ctx context.Context, req DecodeRequest, prompt bool) (*domain.Result, error) {
	if req.Selector.Size() != 4 {
		return nil, fmt.Errorf("return data needs a 4-byte function selector")
	}

	def, ns, err := d.resolve(ctx, d.lookup(domain.KindFunction, req.Selector), req.Hint, prompt)
	if err != nil {
		return nil, err
	}

	values, err := d.codec.DecodeArgs(req.Data, def.Outputs)
	if err != nil {
		return nil, err
	}
	return d.result(def, ns, def.Outputs, values, nil), nil
}

func (d *Decoder) decodeEvent(ctx context.Context, req DecodeRequest, prompt bool) (*domain.Result, error) {
	if len(req.Topics) == 0 {
		return nil, domain.DecodeError{Reason: domain.ReasonMissingTopic, Param: "topic0"}
	}
	selector := domain.HashSelector(req.Topics[0])
	lookup := narrowByTopics(d.lookup(domain.KindEvent, selector), len(req.Topics)-1)

	def, ns, err := d.resolve(ctx, lookup, req.Hint, prompt)
	if err != nil {
		return nil, err
	}

	var indexed, unindexed []domain.Param
	for _, p := range def.Inputs {
		if p.Indexed {
			indexed = append(indexed, p)
		} else {
			unindexed = append(unindexed, p)
		}
	}

	topics := req.Topics[1:]
	if len(topics) < len(indexed) {
		return nil, domain.DecodeError{
			Reason: domain.ReasonMissingTopic,
			Param:  fmt.Sprintf("topic%d", len(topics)+1),
		}
	}
	if len(topics) > len(indexed) {
		return nil, domain.DecodeError{Reason: domain.ReasonExtraTopics}
	}

	dataValues, err := d.codec.DecodeArgs(req.Data, unindexed)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(def.Inputs))
	hashed := make([]bool, len(def.Inputs))
	topic, data := 0, 0
	for i, p := range def.Inputs {
		if !p.Indexed {
			values[i] = dataValues[data]
			data++
			continue
		}

		isHash, err := d.codec.HashedInTopic(p)
		if err != nil {
			return nil, err
		}
		if isHash {
			values[i] = topics[topic]
			hashed[i] = true
		} else if values[i], err = d.codec.DecodeTopic(topics[topic], p); err != nil {
			return nil, err
		}
		topic++
	}

	return d.result(def, ns, def.Inputs, values, hashed), nil
}

func (d *Decoder) lookup(kind domain.Kind, selector domain.Selector) domain.Lookup {
	return d.source.Snapshot().Lookup(kind, selector)
}

// narrowByTopics keeps the event candidates whose indexed inputs match the
// number of topics after topic 0. When none match the lookup is unchanged and
// decoding reports the topic mismatch.
func narrowByTopics(lookup domain.Lookup, topics int) domain.Lookup {
	if lookup.Status != domain.LookupAmbiguous {
		return lookup
	}
	fit := lo.Filter(lookup.Candidates, func(def *domain.Definition, _ int) bool {
		return def.IndexedCount() == topics
	})
	switch len(fit) {
	case 0:
		return lookup
	case 1:
		lookup.Status = domain.LookupUnique
		lookup.Definition = fit[0]
		lookup.Candidates = nil
	default:
		lookup.Candidates = fit
	}
	return lookup
}

// resolve turns a lookup into a single definition or a typed failure
func (d *Decoder) resolve(ctx context.Context, lookup domain.Lookup, hint domain.Hint, prompt bool) (*domain.Definition, string, error) {
	kind, selector := lookup.Kind, lookup.Selector

	switch lookup.Status {
	case domain.LookupUnique:
		def := lookup.Definition
		ns := d.resolver.Namespace(hint)
		if ns == "" || !def.DeclaredIn(ns) {
			ns = def.Namespaces[0]
		}
		return def, ns, nil

	case domain.LookupAmbiguous:
		if def, ns, ok := d.resolver.Resolve(lookup.Candidates, hint); ok {
			d.log.Debug("resolved ambiguous selector", "selector", selector.Hex(), "namespace", ns, "signature", def.Signature)
			return def, ns, nil
		}
		if prompt && d.selector != nil {
			def, err := d.selector.SelectCandidate(ctx, lookup)
			if err == nil {
				return def, def.Namespaces[0], nil
			}
			d.log.Debug("candidate prompt failed", "selector", selector.Hex(), "error", err)
			return nil, "", fmt.Errorf("%w (%w)", ambiguous(lookup, d.resolver.Namespace(hint)), err)
		}
		return nil, "", ambiguous(lookup, d.resolver.Namespace(hint))
	}

	return nil, "", domain.UnknownSelectorError{Kind: kind, Selector: selector}
}

func ambiguous(lookup domain.Lookup, namespace string) domain.AmbiguousSelectorError {
	return domain.AmbiguousSelectorError{
		Kind:       lookup.Kind,
		Selector:   lookup.Selector,
		Namespace:  namespace,
		Candidates: lookup.Candidates,
	}
}

func (d *Decoder) result(def *domain.Definition, ns string, params []domain.Param, values []any, hashed []bool) *domain.Result {
	args := make([]domain.Arg, len(params))
	for i, p := range params {
		args[i] = domain.Arg{
			Name:    p.Key(i),
			Type:    p.Type,
			Indexed: p.Indexed,
			Value:   values[i],
		}
		if hashed != nil {
			args[i].Hashed = hashed[i]
		}
	}
	result := domain.NewResult(def, args)
	result.Namespace = ns
	return result
}
