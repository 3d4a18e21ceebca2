package page

// BuildPages frames the given packets into as many pages as they need, all
// tagged with the given serial number and numbered sequentially from
// firstPageNumber. Overplus from a full page is carried into a fresh packet
// on the next page, whose continuation flag reflects whether the previous
// page actually left a packet open. Every returned page is checksum-sealed
// and ready to serialize.
//
// The granule position of every page is left at zero; position semantics
// belong to the payload codec, and callers that track positions should set
// them before calling ComputeAndSetChecksum themselves.
func BuildPages(serialNumber, firstPageNumber uint32, packets ...Packable) ([]*Page, error) {
	pg := NewPage()
	pg.SetGranulePosition(0)
	pg.SetSerialNumber(serialNumber)
	pg.SetPageNumber(firstPageNumber)

	overplus, err := pg.AddPackets(packets...)
	if err != nil {
		return nil, err
	}
	if err := pg.ComputeAndSetChecksum(); err != nil {
		return nil, err
	}

	pages := []*Page{pg}
	pageNumber := firstPageNumber
	for len(overplus) > 0 {
		pageNumber++
		carry := NewPacketFromSegments(overplus...)

		// The carry page continues a packet only if the previous page left
		// one open. A page that fills exactly at a packet boundary spills
		// whole packets, and their first segment starts fresh.
		prev := pg
		pg = NewPage()
		pg.SetContinuation(prev.ContentContinuesInNextPage())
		pg.SetGranulePosition(0)
		pg.SetSerialNumber(serialNumber)
		pg.SetPageNumber(pageNumber)

		overplus, err = pg.AddPacket(carry)
		if err != nil {
			return nil, err
		}
		if err := pg.ComputeAndSetChecksum(); err != nil {
			return nil, err
		}
		pages = append(pages, pg)
	}

	return pages, nil
}
