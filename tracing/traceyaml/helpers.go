package traceyaml

import (
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func (td *SpanInfo) newChild(spanName string, opts ...trace.SpanStartOption) *SpanInfo {
	td.mu.Lock()
	defer td.mu.Unlock()

	child := newSpanInfo(spanName, opts...)
	child.isChild = true
	td.Children = append(td.Children, child)
	return child
}

func eventConfigFrom(opts ...trace.EventOption) EventConfig {
	ec := trace.NewEventConfig(opts...)
	return EventConfig{Attributes: newAttrs(ec.Attributes())}
}

func newSpanInfo(spanName string, opts ...trace.SpanStartOption) *SpanInfo {
	return &SpanInfo{
		SpanName:    spanName,
		StartConfig: spanConfigFromStart(opts...),
		Attributes:  make(Attributes),
		mu:          &sync.Mutex{},
	}
}

func newAttrs(attrList []attribute.KeyValue) Attributes {
	if len(attrList) == 0 {
		return nil
	}
	attrMap := make(Attributes, len(attrList))
	attrsInto(attrList, attrMap)
	return attrMap
}

func attrsInto(attrList []attribute.KeyValue, attrMap Attributes) {
	for _, attr := range attrList {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}
}

func newLink(l trace.Link) Link {
	return Link{
		TraceID:    l.SpanContext.TraceID().String(),
		SpanID:     l.SpanContext.SpanID().String(),
		Valid:      l.SpanContext.IsValid(),
		Attributes: newAttrs(l.Attributes),
	}
}

func newLinks(links []trace.Link) []Link {
	if len(links) == 0 {
		return nil
	}
	out := make([]Link, 0, len(links))
	for _, l := range links {
		out = append(out, newLink(l))
	}
	return out
}

func spanConfigFromStart(opts ...trace.SpanStartOption) *SpanConfig {
	if len(opts) == 0 {
		return nil
	}
	return spanConfigFrom(trace.NewSpanStartConfig(opts...))
}

func spanConfigFromEnd(opts ...trace.SpanEndOption) *SpanConfig {
	if len(opts) == 0 {
		return nil
	}
	return spanConfigFrom(trace.NewSpanEndConfig(opts...))
}

func spanConfigFrom(sc trace.SpanConfig) *SpanConfig {
	cfg := &SpanConfig{
		Attributes: newAttrs(sc.Attributes()),
		Links:      newLinks(sc.Links()),
		NewRoot:    sc.NewRoot(),
	}
	// The zero SpanKind means "unspecified"; leave it out.
	if sc.SpanKind() != trace.SpanKindUnspecified {
		cfg.SpanKind = sc.SpanKind().String()
	}
	return cfg
}
