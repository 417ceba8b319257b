package domain

// FileKind classifies an export workbook by its schema family.
type FileKind int

const (
	FileKindUnrecognized FileKind = iota
	FileKindAdvertisingSpend
	FileKindWarehouseStorage
	FileKindPrimarySales
)

func (k FileKind) String() string {
	switch k {
	case FileKindAdvertisingSpend:
		return "advertising_spend"
	case FileKindWarehouseStorage:
		return "warehouse_storage"
	case FileKindPrimarySales:
		return "primary_sales"
	default:
		return "unrecognized"
	}
}

// Folder is the kind-named subfolder of the ingest root where normalized
// files of this kind are persisted. Unrecognized files have no folder.
func (k FileKind) Folder() string {
	switch k {
	case FileKindAdvertisingSpend:
		return "reklama"
	case FileKindWarehouseStorage:
		return "storage"
	case FileKindPrimarySales:
		return "main_data"
	default:
		return ""
	}
}

// DateColumn is the primary date column normalization operates on for this
// kind. Empty for unrecognized files.
func (k FileKind) DateColumn() string {
	switch k {
	case FileKindAdvertisingSpend:
		return ColDebitDate
	case FileKindWarehouseStorage:
		return ColStorageDate
	case FileKindPrimarySales:
		return ColSaleDate
	default:
		return ""
	}
}

// KindForFolder maps a kind-named folder back to its FileKind. Normalized
// files carry their kind through the folder they were written into, so the
// reporting path never re-derives the kind from column shape.
func KindForFolder(folder string) FileKind {
	switch folder {
	case "reklama":
		return FileKindAdvertisingSpend
	case "storage":
		return FileKindWarehouseStorage
	case "main_data":
		return FileKindPrimarySales
	default:
		return FileKindUnrecognized
	}
}
