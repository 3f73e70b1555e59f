package parser

// historyFlags describe the context a construct is parsed in
type historyFlags int

const (
	historyIsGlobalScope historyFlags = 1 << iota
	historyInsideStructure
	historyInsideUnion
	historyIsUpwardStack
	historyInsideFunctionBody
	// initializers and arguments end at a comma
	historyNoComma
)

type history struct {
	flags historyFlags
}

func newHistory(flags historyFlags) history {
	return history{flags: flags}
}

func (h history) has(f historyFlags) bool {
	return h.flags&f != 0
}

func (h history) with(f historyFlags) history {
	return history{flags: h.flags | f}
}

func (h history) without(f historyFlags) history {
	return history{flags: h.flags &^ f}
}
