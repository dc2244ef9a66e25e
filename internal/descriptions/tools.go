package descriptions

import "sort"

// Tool names exposed by the MCP server
const (
	ClassifyFileTool     = "contract_classify_file"
	ExtractFileTool      = "contract_extract_file"
	ProcessDirectoryTool = "contract_process_directory"
	ListTablesTool       = "contract_list_tables"
)

const (
	ClassifyFileDescription = `Tell whether a contract PDF is an award or a modification.

**When to use:** Before extracting, to know which table a document will produce.

**How it decides:** A document whose first page contains the modification marker (AMENDMENT in the built-in profile) is a modification; every other document is an award.

**Examples:**
• "Is Award N0024418D0003.pdf an award or a mod?"
• "Classify every PDF in /contracts/incoming before processing"

**Returns:** The path followed by "award" or "modification".`

	ExtractFileDescription = `Extract the table from one contract PDF and save it to the output directory.

**When to use:** A single award or modification needs to be (re)processed.

**What it produces:**
• Awards: one row per line item with SLIN, ACRN, Unit, Cost, Qty, Obligation and Action Type, saved as "Award <contract> Order <order>"
• Modifications: one row per amount change with SUBCLIN, ACRN, CIN and the original, new and difference amounts, saved as "Mod-<contract>"

**Examples:**
• "Extract the line items from /contracts/Award 1.pdf"
• "Re-run extraction on the mod that failed yesterday"

**Returns:** The table name, where it was saved, the row count and the rows as tab separated text.`

	ProcessDirectoryDescription = `Extract every award and modification PDF under a directory.

**When to use:** A batch of new contract documents has arrived.

**How it selects files:** PDFs whose names contain one of the configured keywords (award, original contract, mod by default) in any subdirectory that is not hidden. A document that cannot be read is skipped and counted.

**Examples:**
• "Process everything in /contracts/2024"
• "Run the extractor on the configured root"

**Returns:** Found, processed and skipped counts plus one line per saved table.`

	ListTablesDescription = `List the saved tables in the output directory.

**When to use:** To see what has been extracted so far, or to find the modifications of a contract.

**How it groups:** Each award is listed with every modification of the same contract number. Modifications without a matching award are listed separately.

**Returns:** The grouped table names with their row counts.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ClassifyFileTool:     ClassifyFileDescription,
	ExtractFileTool:      ExtractFileDescription,
	ProcessDirectoryTool: ProcessDirectoryDescription,
	ListTablesTool:       ListTablesDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all tools in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
