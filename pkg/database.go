package trigger

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// LoadDatabase reads the trigger channel mapping valid for a run.
func LoadDatabase(dbConn *sqlx.DB, runNumber int) (ChannelMapping, error) {
	calo, err := getCaloMappingFromDB(dbConn, runNumber)
	if err != nil {
		errMessage := fmt.Errorf("error getting calorimeter trigger mapping from database: %w", err)
		logger.Error(errMessage.Error())
		return ChannelMapping{}, errMessage
	}
	tracker, err := getTrackerMappingFromDB(dbConn, runNumber)
	if err != nil {
		errMessage := fmt.Errorf("error getting tracker trigger mapping from database: %w", err)
		logger.Error(errMessage.Error())
		return ChannelMapping{}, errMessage
	}
	return ChannelMapping{Calo: calo, Tracker: tracker}, nil
}

type CaloMappingEntry struct {
	ElecID int `db:"ElecID"`
	Crate  int `db:"Crate"`
}

type TrackerMappingEntry struct {
	ElecID int `db:"ElecID"`
	TrackerCoordinate
}

func getCaloMappingFromDB(db *sqlx.DB, runNumber int) (map[int]int, error) {
	query := "SELECT ElecID, Crate FROM CaloTriggerMapping WHERE MinRun <= %d and MaxRun >= %d ORDER BY ElecID"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("Calorimeter trigger mapping read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}
	defer rows.Close()

	mapping := make(map[int]int)
	for rows.Next() {
		result := CaloMappingEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		if result.Crate < 0 || result.Crate >= NCRATES {
			return nil, &ErrCoordinate{Kind: "calo", ElecID: result.ElecID, Side: -1, Zone: -1}
		}
		mapping[result.ElecID] = result.Crate
	}
	return mapping, rows.Err()
}

func getTrackerMappingFromDB(db *sqlx.DB, runNumber int) (map[int]TrackerCoordinate, error) {
	query := "SELECT ElecID, Side, Zone FROM TrackerTriggerMapping WHERE MinRun <= %d and MaxRun >= %d ORDER BY ElecID"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("Tracker trigger mapping read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}
	defer rows.Close()

	mapping := make(map[int]TrackerCoordinate)
	for rows.Next() {
		result := TrackerMappingEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		if result.Side < 0 || result.Side >= NSIDES || result.Zone < 0 || result.Zone >= NZONES {
			return nil, &ErrCoordinate{Kind: "tracker", ElecID: result.ElecID, Side: result.Side, Zone: result.Zone}
		}
		mapping[result.ElecID] = result.TrackerCoordinate
	}
	return mapping, rows.Err()
}
