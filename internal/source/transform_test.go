package source

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanctionwatch/internal/sanction/models"
)

const unFixture = `<?xml version="1.0"?>
<CONSOLIDATED_LIST>
  <INDIVIDUALS>
    <INDIVIDUAL DATAID="6908555">
      <FIRST_NAME>Ri Won Ho</FIRST_NAME>
      <UN_LIST_TYPE>DPRK</UN_LIST_TYPE>
      <NATIONALITY><VALUE>Democratic People's Republic of Korea</VALUE></NATIONALITY>
      <INDIVIDUAL_ALIAS><ALIAS_NAME>Ri Won-ho</ALIAS_NAME></INDIVIDUAL_ALIAS>
      <INDIVIDUAL_DATE_OF_BIRTH><DATE>1964-07-17</DATE></INDIVIDUAL_DATE_OF_BIRTH>
      <INDIVIDUAL_ADDRESS><NOTE>Syria</NOTE></INDIVIDUAL_ADDRESS>
      <INDIVIDUAL_DOCUMENT>
        <TYPE_OF_DOCUMENT>Passport</TYPE_OF_DOCUMENT>
        <NUMBER>381310014</NUMBER>
      </INDIVIDUAL_DOCUMENT>
    </INDIVIDUAL>
  </INDIVIDUALS>
  <ENTITIES>
    <ENTITY DATAID="6908629">
      <FIRST_NAME>KOREA RYONBONG GENERAL CORPORATION</FIRST_NAME>
      <UN_LIST_TYPE>DPRK</UN_LIST_TYPE>
      <ENTITY_ALIAS><ALIAS_NAME>LYONGAKSAN</ALIAS_NAME></ENTITY_ALIAS>
      <ENTITY_ADDRESS><NOTE>Pyongyang, DPRK</NOTE></ENTITY_ADDRESS>
    </ENTITY>
  </ENTITIES>
</CONSOLIDATED_LIST>`

const euFixture = `<?xml version="1.0"?>
<export>
  <sanctionEntity>
    <referenceNumber>EU.27.28</referenceNumber>
    <subjectType><classificationCode>P</classificationCode></subjectType>
    <nameAlias isPrimary="true"><wholeName>Saddam Hussein Al-Tikriti</wholeName></nameAlias>
    <nameAlias isPrimary="false"><wholeName>Abu Ali</wholeName></nameAlias>
    <citizenship><countryDescription>Iraq</countryDescription></citizenship>
    <birthdate><birthdate>1937-04-28</birthdate></birthdate>
    <regulation><publicationDate>2003-07-07</publicationDate></regulation>
    <identification>
      <identificationTypeCode>passport</identificationTypeCode>
      <identificationTypeDescription>National passport</identificationTypeDescription>
      <number>M0112940</number>
    </identification>
  </sanctionEntity>
</export>`

const usFixture = `<?xml version="1.0"?>
<sdnList>
  <sdnEntry>
    <uid>36</uid>
    <firstName>Ismael</firstName>
    <lastName>ZAMBADA GARCIA</lastName>
    <sdnType>Individual</sdnType>
    <programList><program>SDNTK</program></programList>
    <akaList>
      <aka><firstName>El</firstName><lastName>Mayo</lastName></aka>
    </akaList>
    <idList>
      <id><idType>Passport</idType><idNumber>12345MX</idNumber></id>
    </idList>
    <addressList>
      <address><address1>Calle 5</address1><city>Culiacan</city><country>Mexico</country></address>
    </addressList>
    <nationalityList><nationality><country>Mexico</country></nationality></nationalityList>
    <dateOfBirthList><dateOfBirthItem><dateOfBirth>01 Jan 1948</dateOfBirth></dateOfBirthItem></dateOfBirthList>
  </sdnEntry>
</sdnList>`

func transform(t *testing.T, s models.Source, doc string) []models.Record {
	t.Helper()
	root, err := ParseXML(strings.NewReader(doc))
	require.NoError(t, err)
	cfg, ok := ConfigFor(s)
	require.True(t, ok)
	return Transform(root, s, cfg, slog.Default())
}

func TestTransformUN(t *testing.T) {
	records := transform(t, models.SourceUN, unFixture)
	require.Len(t, records, 2)

	person := records[0]
	assert.Equal(t, "UN-6908555", person.ID)
	assert.Equal(t, models.SourceUN, person.Source)
	assert.Equal(t, "Ri Won Ho", person.Name)
	assert.Equal(t, models.TypeIndividual, person.Type)
	assert.Equal(t, "person", person.Subtype)
	assert.Equal(t, []string{"Democratic People's Republic of Korea"}, person.Countries)
	assert.Equal(t, []models.Alias{{Name: "Ri Won-ho"}}, person.Aliases)
	assert.Equal(t, []string{"DPRK"}, person.Programs)
	require.Len(t, person.Identifiers, 1)
	assert.Equal(t, "Passport", person.Identifiers[0].Type)
	assert.Equal(t, "381310014", person.Identifiers[0].Value)
	assert.Equal(t, []models.Address{{Text: "Syria"}}, person.Addresses)
	assert.Equal(t, "1964-07-17", person.Details["dateOfBirth"])

	entity := records[1]
	assert.Equal(t, "UN-6908629", entity.ID)
	assert.Equal(t, models.TypeEntity, entity.Type)
	assert.Equal(t, "organization", entity.Subtype)
}

func TestTransformEU(t *testing.T) {
	records := transform(t, models.SourceEU, euFixture)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "EU-EU.27.28", rec.ID)
	assert.Equal(t, "Saddam Hussein Al-Tikriti", rec.Name)
	assert.Equal(t, models.TypeIndividual, rec.Type)
	assert.Equal(t, []models.Alias{{Name: "Abu Ali"}}, rec.Aliases)
	assert.Equal(t, []string{"Iraq"}, rec.Countries)
	require.Len(t, rec.Identifiers, 1)
	assert.Equal(t, "National passport", rec.Identifiers[0].Description)
	assert.Equal(t, "M0112940", rec.Identifiers[0].Value)
	assert.Equal(t, "1937-04-28", rec.Details["dateOfBirth"])
}

func TestTransformUS(t *testing.T) {
	records := transform(t, models.SourceUS, usFixture)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "US-36", rec.ID)
	assert.Equal(t, "Ismael ZAMBADA GARCIA", rec.Name)
	assert.Equal(t, models.TypeIndividual, rec.Type)
	assert.Equal(t, []models.Alias{{Name: "El Mayo"}}, rec.Aliases)
	assert.Equal(t, []string{"Mexico"}, rec.Countries)
	assert.Equal(t, []string{"SDNTK"}, rec.Programs)
	require.Len(t, rec.Addresses, 1)
	assert.Equal(t, "Culiacan", rec.Addresses[0].City)
	assert.Equal(t, "1948-01-01", rec.Details["dateOfBirth"])
}

func TestTransformSynthesizesMissingID(t *testing.T) {
	doc := `<CONSOLIDATED_LIST><INDIVIDUALS><INDIVIDUAL>
	  <FIRST_NAME>No Id Person</FIRST_NAME>
	</INDIVIDUAL></INDIVIDUALS></CONSOLIDATED_LIST>`
	records := transform(t, models.SourceUN, doc)
	require.Len(t, records, 1)
	assert.True(t, strings.HasPrefix(records[0].ID, "UN-"))
	assert.Greater(t, len(records[0].ID), len("UN-"))
}

func TestTransformBlankNameSentinel(t *testing.T) {
	doc := `<CONSOLIDATED_LIST><ENTITIES><ENTITY DATAID="1"></ENTITY></ENTITIES></CONSOLIDATED_LIST>`
	records := transform(t, models.SourceUN, doc)
	require.Len(t, records, 1)
	assert.Equal(t, models.NoName, records[0].Name)
}

func TestTransformEntityRecoversPanic(t *testing.T) {
	cfg, ok := ConfigFor(models.SourceUN)
	require.True(t, ok)
	_, err := transformEntity(nil, models.SourceUN, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transform entity")
}
