package trigger

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

type EventDecisionHDF5 struct {
	evt_number       int32
	calo_decision    int8
	final_decision   int8
	delayed_decision int8
	n_calo_records   int32
	n_coinc_records  int32
	n_l2_decisions   int32
}

type CaloRecordHDF5 struct {
	evt_number         int32
	clocktick_25ns     int64
	zoning_side0       uint16
	zoning_side1       uint16
	multiplicity_side0 uint8
	multiplicity_side1 uint8
	lto_side0          int8
	lto_side1          int8
	veto_multiplicity  uint8
	veto_lto           int8
	xt                 uint8
	single_side        int8
	threshold          int8
	decision           int8
}

type CoincidenceRecordHDF5 struct {
	evt_number         int32
	clocktick_1600ns   int64
	calo_zoning_side0  uint16
	calo_zoning_side1  uint16
	track_zoning_side0 uint16
	track_zoning_side1 uint16
	near_source_side0  uint16
	near_source_side1  uint16
	coinc_zoning_side0 uint16
	coinc_zoning_side1 uint16
	decision           int8
	mode               int8
}

type L2DecisionHDF5 struct {
	evt_number       int32
	clocktick_1600ns int64
	mode             int8
}

type TriggerParamsHDF5 struct {
	paramStr [STRLEN]byte
	value    int32
}

const STRLEN = 24

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func boolToInt8(b bool) int8 {
	if b {
		return 1
	}
	return 0
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, fmt.Errorf("error creating dataspace for %s: %w", name, err)
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, fmt.Errorf("error creating property list for %s: %w", name, err)
	}
	defer plist.Close()

	chunks := []uint{4096}
	if err := plist.SetChunk(chunks); err != nil {
		return nil, fmt.Errorf("error setting chunks for %s: %w", name, err)
	}
	if configuration.CompressionLevel > 0 {
		if err := plist.SetDeflate(configuration.CompressionLevel); err != nil {
			return nil, fmt.Errorf("error setting compression for %s: %w", name, err)
		}
	}

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, fmt.Errorf("error creating datatype for %s: %w", name, err)
	}
	defer dtype.Close()

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

// writeArrayToTable appends rows to a table which currently holds offset rows.
func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, offset int) error {
	length := uint(len(*data))
	if length == 0 {
		return nil
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return fmt.Errorf("error creating memory dataspace: %w", err)
	}
	defer dataspace.Close()

	rowsInFile := uint(offset)
	newsize := []uint{rowsInFile + length}
	if err := dataset.Resize(newsize); err != nil {
		return fmt.Errorf("error extending table: %w", err)
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{rowsInFile}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return fmt.Errorf("error selecting hyperslab: %w", err)
	}

	if err := dataset.WriteSubset(data, dataspace, filespace); err != nil {
		return fmt.Errorf("error writing table rows: %w", err)
	}
	return nil
}
