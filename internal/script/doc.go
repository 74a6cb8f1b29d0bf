// Package script provides event listeners written in Lua.
//
// A script defines a global on_event function. It is called with a table
// describing each delivered event:
//
//	function on_event(ev)
//	    -- ev.type        "SAVED"
//	    -- ev.path        "ANY.FILE.SAVED"
//	    -- ev.id          unique event ID
//	    -- ev.timestamp   RFC 3339 time
//	    -- ev.source      description of the firing component
//	    -- ev.attachment  attached data, converted to Lua values
//	    -- ev.operation   failures only: path of the failed operation
//	    -- ev.cause       failures only: error text
//	    if ev.attachment.path == nil then
//	        return false, "missing path"
//	    end
//	end
//
// Raising a Lua error or returning false fails the listener, which aborts
// the rest of the fan-out like any other listener error.
//
// Scripts run in a restricted state: only the base, table, string and math
// libraries are available, and dofile, loadfile, load and loadstring are
// removed. print writes to the listener's logger.
package script
