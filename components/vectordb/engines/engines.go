package engines

import (
	"github.com/bububa/lifelog-agent/components/vectordb/engines/chromem"
	"github.com/bububa/lifelog-agent/components/vectordb/engines/memory"
)

var (
	FromChromem = chromem.New
	FromMemory  = memory.New
	// OpenChromem opens a persistent chromem database directory
	OpenChromem = chromem.Open
)
