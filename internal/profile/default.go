package profile

// Award table columns, in output order.
const (
	ColumnSLIN          = "SLIN"
	ColumnACRN          = "ACRN"
	ColumnUnit          = "Unit"
	ColumnCost          = "Cost"
	ColumnQty           = "Qty"
	ColumnObligation    = "Obligation"
	ColumnActionType    = "Action Type"
	ColumnCIN           = "CIN"
	ColumnFundingDoc    = "Funding Doc"
	ColumnPurchaseReqNo = "Purchase Req No"
)

// Default returns a fresh copy of the DD Form 1155 profile.
func Default() *Profile {
	header := Offsets{Left: 3, Right: 20, Down: 8}

	return &Profile{
		Name:               DefaultName,
		ModificationMarker: "AMENDMENT",

		ContractNumber:    FieldSpec{Anchor: "CONTRACT NO.", Direction: Below, Offsets: header},
		OrderNumber:       FieldSpec{Anchor: "ORDER NUMBER ", Direction: Below, Offsets: header},
		ModContractNumber: FieldSpec{Anchor: "MOD. OF CONTRACT/ORDER NO. ", Direction: Below, Offsets: header},

		LineItem:  FieldSpec{Column: ColumnSLIN, Anchor: "ITEM NO ", Direction: Below, Offsets: Offsets{Left: 5, Down: 12}},
		RowWindow: Window{Width: 500, Height: 220},
		Fields: []FieldSpec{
			{Column: ColumnACRN, Anchor: "ACRN ", Direction: RightOf, Offsets: Offsets{Right: 20}},
			{Column: ColumnUnit, Anchor: "UNIT ", Direction: Below, Offsets: Offsets{Down: 15}},
			{Column: ColumnCost, Anchor: "UNIT PRICE ", Direction: Below, Offsets: Offsets{Down: 15}},
			{Column: ColumnCIN, Anchor: "CIN: ", Direction: RightOf, Offsets: Offsets{Right: 100}},
			{Column: ColumnQty, Anchor: "QUANTITY ", Direction: Below, Offsets: Offsets{Down: 8}},
			{Column: ColumnObligation, Anchor: "AMOUNT ", Direction: Below, Offsets: Offsets{Left: 50, Down: 15}},
			{Column: ColumnFundingDoc, Anchor: "Funding ", Direction: RightOf, Offsets: Offsets{Right: 100}},
			{Column: ColumnPurchaseReqNo, Anchor: "PURCHASE REQUEST NUMBER: ", Direction: RightOf, Offsets: Offsets{Right: 60}},
		},

		CINPriceLookup: PriceLookup{Enabled: true, Width: 200},
	}
}
