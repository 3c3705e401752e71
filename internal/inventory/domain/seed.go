package domain

// DefaultFactory is the warehouse the seed catalog lives in
const DefaultFactory = "514G"

var seedItems = []InventoryItem{
	{ID: "1", MaterialName: "280D/3PLY, BONDED THREAD NY LUBRICATED/CHALK(13B)", ColorCode: "1013B", ColorName: "CHALK(13B)", ItemCode: "FQ7261-113", Unit: "CON", RequiredQty: 17.33, StockIn: 18, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "2", MaterialName: "210D/3PLY, BONDED THREAD, NY, LUBRICATED/ORANGE CHALK(79A)", ColorCode: "1079A", ColorName: "ORANGE CHALK(79A)", ItemCode: "IQ7166-800", Unit: "CON", RequiredQty: 24, StockIn: 27, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "3", MaterialName: "120D/2PLY, M120, SYLKO, POLY, LUBRICATED/CHALK(13B)", ColorCode: "1013B", ColorName: "CHALK(13B)", ItemCode: "FQ7261-113", Unit: "CON", RequiredQty: 9, StockIn: 0, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "4", MaterialName: "200D/1PLY, POLY/CHALK(13B)", ColorCode: "1013B", ColorName: "CHALK(13B)", ItemCode: "FQ7261-113", Unit: "CON", RequiredQty: 3.78, StockIn: 0, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "5", MaterialName: "150D/3PLY, POLY/CHALK(13B)", ColorCode: "1013B", ColorName: "CHALK(13B)", ItemCode: "FQ7261-113", Unit: "CON", RequiredQty: 5, StockIn: 0, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "6", MaterialName: "5MM, FLAT, POLY, 1TONE, REC, SJL-21040/100CM/CHALK(13B)", ColorCode: "1013B", ColorName: "CHALK(13B)", ItemCode: "FQ7261-113", Unit: "EA", RequiredQty: 3000, StockIn: 0, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "7", MaterialName: "5MM, FLAT, POLY, 1TONE, REC, SJL-21040/105CM/CHALK(13B)", ColorCode: "1013B", ColorName: "CHALK(13B)", ItemCode: "FQ7261-113", Unit: "EA", RequiredQty: 2000, StockIn: 0, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "8", MaterialName: "NSW VOMERO PREMIUM (W)/LACE/105CM/6MM, FLAT, 2TONE, SC 1TONE, MB, REC, QQ1091V+TIP 3TONE/ORANGE CHALK(79A)/SAIL(11K)/BLACK(00A)/WHITE(10A)/MULTI-COLOR(92A)", ColorCode: "C4465", ColorName: "ORANGE CHALK(79A)/SAIL(11K)/BLACK(00A)/WHITE(10A)/MULTI-COLOR(92A)", ItemCode: "IQ7166-800", Unit: "EA", RequiredQty: 424, StockIn: 0, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "9", MaterialName: "NSW VOMERO PREMIUM (W)/LACE/110CM/6MM, FLAT, 2TONE, SC 1TONE, MB, REC, QQ1091V+TIP 3TONE/ORANGE CHALK(79A)/SAIL(11K)/BLACK(00A)/WHITE(10A)/MULTI-COLOR(92A)", ColorCode: "C4465", ColorName: "ORANGE CHALK(79A)/SAIL(11K)/BLACK(00A)/WHITE(10A)/MULTI-COLOR(92A)", ItemCode: "IQ7166-800", Unit: "EA", RequiredQty: 4416, StockIn: 0, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "10", MaterialName: "NSW VOMERO PREMIUM (W)/LACE/115CM/6MM, FLAT, 2TONE, SC 1TONE, MB, REC, QQ1091V+TIP 3TONE/ORANGE CHALK(79A)/SAIL(11K)/BLACK(00A)/WHITE(10A)/MULTI-COLOR(92A)", ColorCode: "C4465", ColorName: "ORANGE CHALK(79A)/SAIL(11K)/BLACK(00A)/WHITE(10A)/MULTI-COLOR(92A)", ItemCode: "IQ7166-800", Unit: "EA", RequiredQty: 1958, StockIn: 0, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "11", MaterialName: "ELASTIC TAPE 10MM, NYLON/SPANDEX, BLACK(00A)", ColorCode: "00A", ColorName: "BLACK(00A)", ItemCode: "ET-1001", Unit: "M", RequiredQty: 500, StockIn: 500, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "12", MaterialName: "VELCRO HOOK 20MM, POLYESTER, WHITE(10A)", ColorCode: "10A", ColorName: "WHITE(10A)", ItemCode: "VH-2002", Unit: "M", RequiredQty: 250, StockIn: 100, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "13", MaterialName: "VELCRO LOOP 20MM, POLYESTER, WHITE(10A)", ColorCode: "10A", ColorName: "WHITE(10A)", ItemCode: "VL-2002", Unit: "M", RequiredQty: 250, StockIn: 100, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "14", MaterialName: "ZIPPER #5, METAL, CLOSED END, 20CM, NAVY(42B)", ColorCode: "42B", ColorName: "NAVY(42B)", ItemCode: "ZP-5005", Unit: "EA", RequiredQty: 1200, StockIn: 1200, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "15", MaterialName: "BUTTON 4 HOLE, 18L, PLASTIC, RED(20C)", ColorCode: "20C", ColorName: "RED(20C)", ItemCode: "BT-1804", Unit: "GRS", RequiredQty: 50, StockIn: 0, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "16", MaterialName: "INTERLINING, WOVEN, FUSIBLE, 50G/M2, GREY(80D)", ColorCode: "80D", ColorName: "GREY(80D)", ItemCode: "IL-5006", Unit: "M", RequiredQty: 1000, StockIn: 500, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "17", MaterialName: "LABEL, WOVEN, MAIN LABEL, 50X20MM", ColorCode: "N/A", ColorName: "MULTI", ItemCode: "LB-0001", Unit: "EA", RequiredQty: 5000, StockIn: 4500, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "18", MaterialName: "PACKING BAG, PE, CLEAR, 30X40CM", ColorCode: "CLR", ColorName: "CLEAR", ItemCode: "PB-3040", Unit: "EA", RequiredQty: 2000, StockIn: 2000, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "19", MaterialName: "CARTON BOX, 5 PLY, 60X40X40CM", ColorCode: "BRN", ColorName: "BROWN", ItemCode: "CB-6040", Unit: "EA", RequiredQty: 150, StockIn: 50, FactoryCode: "514G", Type: ItemTypeMaterial},
	{ID: "20", MaterialName: "HANGTAG, PAPER, 300GSM, 40X90MM", ColorCode: "N/A", ColorName: "WHITE", ItemCode: "HT-0002", Unit: "EA", RequiredQty: 5000, StockIn: 0, FactoryCode: "514G", Type: ItemTypeMaterial},
}

// SeedItems returns a fresh copy of the starter material catalog
func SeedItems() []InventoryItem {
	out := make([]InventoryItem, len(seedItems))
	copy(out, seedItems)
	return out
}
