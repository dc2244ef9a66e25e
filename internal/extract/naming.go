package extract

import (
	"path/filepath"
	"strings"
)

// AwardTableName names an award table file, without extension, from its
// contract and order numbers. When both are empty the PDF's name is used.
func AwardTableName(contract, order, pdfPath string) string {
	contract = CleanContractOrOrder(SanitizeFilename(contract))
	order = CleanContractOrOrder(SanitizeFilename(order))
	if contract == "" && order == "" {
		return "Award " + stem(pdfPath)
	}
	return "Award " + contract + " Order " + order
}

// ModificationTableName names a modification table file, without
// extension, from its contract number or, failing that, the PDF's name.
func ModificationTableName(contract, pdfPath string) string {
	contract = CleanContractOrOrder(SanitizeFilename(contract))
	if contract == "" {
		return "Mod-" + stem(pdfPath)
	}
	return "Mod-" + contract
}

func stem(path string) string {
	base := filepath.Base(path)
	return SanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)))
}
