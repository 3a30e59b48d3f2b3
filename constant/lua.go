package constant

// Resolver script entry points. Every Lua resolver must define both globals.
const (
	SearchFn  = "Search"
	PopularFn = "Popular"
)

// ResolverTemplate is a text/template used by "resolvers new" to scaffold a Lua resolver.
const ResolverTemplate = `{{ $divider := repeat "-" (plus (len .Name) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}

----- IMPORTS -----
local http = require("http")
local json = require("json")
--- END IMPORTS ---

----- MAIN -----

--- Resolves a free-form title query to a playable locator.
--- Returns nil when nothing matches.
---@param query string
---@return string|nil
function {{ .SearchFn }}(query)
	return nil
end

--- Returns a generic locator used when every query came back empty.
---@return string|nil
function {{ .PopularFn }}()
	return nil
end

--- END MAIN ---
`
